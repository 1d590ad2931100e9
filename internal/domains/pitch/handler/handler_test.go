package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pitchboard-backend/internal/domains/pitch/model"
	"pitchboard-backend/internal/domains/pitch/view"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetPitchDetail(ctx context.Context, id string) (*model.RenderModel, error) {
	args := m.Called(ctx, id)
	rm, _ := args.Get(0).(*model.RenderModel)
	return rm, args.Error(1)
}

type stubCounter struct {
	views int64
	err   error
}

func (s stubCounter) GetAndIncrementViews(context.Context, string) (int64, error) {
	return s.views, s.err
}

func setupRouter(svc *mockService, counter view.CounterStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, view.NewCounter(counter, 0), nil)

	r := gin.New()
	pitches := r.Group("/api/v1/pitches")
	pitches.GET("/:id", h.GetPitchDetail)
	pitches.GET("/:id/views", h.GetPitchViews)
	pitches.GET("/:id/stream", h.StreamPitch)
	return r
}

func renderModel(id string) *model.RenderModel {
	html := "<h1 id=\"hello\">Hello</h1>\n"
	return &model.RenderModel{
		Pitch:       model.Normalize(model.Pitch{ID: id, Title: "Acme"}, model.UnknownAuthor("")),
		PitchHTML:   &html,
		EditorPicks: []model.CollectionEntry{{ID: "e1"}, {ID: "e2"}},
	}
}

func doGet(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetPitchDetail_OK(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPitchDetail", mock.Anything, "s1").Return(renderModel("s1"), nil)

	w := doGet(setupRouter(svc, stubCounter{views: 9}), "/api/v1/pitches/s1")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool                      `json:"success"`
		Data    model.PitchDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "s1", body.Data.Pitch.ID)
	assert.Equal(t, "Unknown Author", body.Data.Pitch.Author.Name)
	assert.Len(t, body.Data.EditorPicks, 2)
	assert.Equal(t, model.ViewStateLoading, body.Data.Views.State)
	assert.Equal(t, "/api/v1/pitches/s1/views", body.Data.Views.Href)
}

func TestGetPitchDetail_NoDetailsIsNull(t *testing.T) {
	svc := new(mockService)
	rm := renderModel("s5")
	rm.PitchHTML = nil
	svc.On("GetPitchDetail", mock.Anything, "s5").Return(rm, nil)

	w := doGet(setupRouter(svc, stubCounter{}), "/api/v1/pitches/s5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pitch_html":null`)
}

func TestGetPitchDetail_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{model.ErrPitchNotFound, http.StatusNotFound, "NOT_FOUND"},
		{errors.Join(model.ErrSourceUnavailable, errors.New("eof")), http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"},
		{model.ErrInvalidPitchID, http.StatusBadRequest, "INVALID_PITCH_ID"},
	}

	for _, tt := range tests {
		svc := new(mockService)
		svc.On("GetPitchDetail", mock.Anything, "x").Return(nil, tt.err)

		w := doGet(setupRouter(svc, stubCounter{}), "/api/v1/pitches/x")

		assert.Equal(t, tt.status, w.Code)
		assert.Contains(t, w.Body.String(), tt.code)
	}
}

func TestGetPitchViews_Resolved(t *testing.T) {
	w := doGet(setupRouter(new(mockService), stubCounter{views: 12}), "/api/v1/pitches/s1/views")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data view.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.ViewStateResolved, body.Data.State)
	require.NotNil(t, body.Data.Views)
	assert.Equal(t, int64(12), *body.Data.Views)
}

func TestGetPitchViews_FailureIsLocal(t *testing.T) {
	w := doGet(setupRouter(new(mockService), stubCounter{err: errors.New("redis down")}), "/api/v1/pitches/s1/views")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"failed"`)
	assert.NotContains(t, w.Body.String(), "redis down")
}

func TestGetPitchDetail_ViewsHrefUsesTrimmedID(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPitchDetail", mock.Anything, " s1 ").Return(renderModel("s1"), nil)

	w := doGet(setupRouter(svc, stubCounter{}), "/api/v1/pitches/%20s1%20")

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data model.PitchDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/v1/pitches/s1/views", body.Data.Views.Href)
}

func TestGetPitchViews_InvalidID(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"blank", "/api/v1/pitches/%20%20/views"},
		{"too long", "/api/v1/pitches/" + strings.Repeat("a", model.MaxPitchIDLength+1) + "/views"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doGet(setupRouter(new(mockService), stubCounter{views: 1}), tt.path)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_PITCH_ID")
		})
	}
}

func TestStreamPitch_PageBeforeViews(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPitchDetail", mock.Anything, "s1").Return(renderModel("s1"), nil)

	w := doGet(setupRouter(svc, stubCounter{views: 3}), "/api/v1/pitches/s1/stream")

	require.Equal(t, http.StatusOK, w.Code)
	out := w.Body.String()
	pageAt := strings.Index(out, "event:page")
	viewsAt := strings.Index(out, "event:views")
	require.GreaterOrEqual(t, pageAt, 0)
	require.Greater(t, viewsAt, pageAt)
	assert.Contains(t, out[viewsAt:], `"state":"resolved"`)
	assert.Contains(t, out[pageAt:viewsAt], `"state":"loading"`)
}

func TestStreamPitch_CounterFailureStillDeliversPage(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPitchDetail", mock.Anything, "s1").Return(renderModel("s1"), nil)

	w := doGet(setupRouter(svc, stubCounter{err: errors.New("timeout")}), "/api/v1/pitches/s1/stream")

	out := w.Body.String()
	assert.Contains(t, out, "event:page")
	assert.Contains(t, out, `"state":"failed"`)
}

func TestStreamPitch_NotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("GetPitchDetail", mock.Anything, "s3").Return(nil, model.ErrPitchNotFound)

	w := doGet(setupRouter(svc, stubCounter{}), "/api/v1/pitches/s3/stream")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "event:")
}
