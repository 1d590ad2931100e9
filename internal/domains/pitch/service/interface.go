package service

import (
	"context"

	"pitchboard-backend/internal/domains/pitch/model"
)

// ServiceInterface - Định nghĩa business logic methods
type ServiceInterface interface {
	// GetPitchDetail compose RenderModel cho trang chi tiết pitch
	//   - model.ErrInvalidPitchID: id rỗng hoặc quá dài
	//   - model.ErrPitchNotFound: pitch không tồn tại
	//   - model.ErrSourceUnavailable: content store lỗi
	GetPitchDetail(ctx context.Context, id string) (*model.RenderModel, error)
}
