package model

import (
	"errors"
	"net/http"

	"pitchboard-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPitchID     = errors.New("invalid pitch id")
	ErrPitchNotFound      = errors.New("pitch not found")
	ErrSourceUnavailable  = errors.New("content source unavailable")
	ErrCounterUnavailable = errors.New("view counter unavailable")
)

type errorMapping struct {
	Target  error
	Status  int
	Code    string
	Message string
}

// Thứ tự quan trọng: errors.Is duyệt từ trên xuống
var pitchErrorMap = []errorMapping{
	{Target: ErrInvalidPitchID, Status: http.StatusBadRequest, Code: "INVALID_PITCH_ID", Message: "The pitch id is invalid"},
	{Target: ErrPitchNotFound, Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "The requested pitch does not exist"},
	{Target: ErrSourceUnavailable, Status: http.StatusServiceUnavailable, Code: "SOURCE_UNAVAILABLE", Message: "Content is temporarily unavailable, please retry"},
}

// StatusFor trả về HTTP status cho một error của pitch domain
func StatusFor(err error) (int, string, string) {
	for _, m := range pitchErrorMap {
		if errors.Is(err, m.Target) {
			return m.Status, m.Code, m.Message
		}
	}
	return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error"
}

// HandlePitchError writes the error response and reports whether err was non-nil.
func HandlePitchError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	status, code, message := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("pitch_id", c.Param("id")).
			Msg("[PitchHandler] request failed")
	}

	response.ErrorResponse(c, status, code, message)
	return true
}
