package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"pitchboard-backend/internal/domains/pitch/markdown"
	"pitchboard-backend/internal/domains/pitch/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockContentStore struct {
	mock.Mock
}

func (m *mockContentStore) FetchByKey(ctx context.Context, id string) (*model.Pitch, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Pitch)
	return p, args.Error(1)
}

func (m *mockContentStore) FetchByFilter(ctx context.Context, filter model.CollectionFilter) (*model.Collection, error) {
	args := m.Called(ctx, filter)
	c, _ := args.Get(0).(*model.Collection)
	return c, args.Error(1)
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", markdown.ErrMarkdownRender
}

var editorPicks = model.CollectionFilter{Slug: "editor-picks-new"}

func strPtr(s string) *string { return &s }

func newTestService(store *mockContentStore) ServiceInterface {
	return NewService(store, markdown.NewGoldmarkRenderer(""), Options{DefaultAvatar: "/default-avatar.png"})
}

func TestGetPitchDetail_FullPage(t *testing.T) {
	store := new(mockContentStore)
	author := &model.Author{ID: "a1", Name: "Ada", Username: "ada", Image: "/ada.png"}
	store.On("FetchByKey", mock.Anything, "s1").
		Return(&model.Pitch{ID: "s1", Title: "Acme", Pitch: strPtr("# Hello"), Author: author}, nil)
	store.On("FetchByFilter", mock.Anything, editorPicks).
		Return(&model.Collection{Slug: "editor-picks-new", Select: []model.CollectionEntry{{ID: "e1"}, {ID: "e2"}}}, nil)

	got, err := newTestService(store).GetPitchDetail(context.Background(), "s1")

	require.NoError(t, err)
	assert.Equal(t, "s1", got.Pitch.ID)
	require.NotNil(t, got.PitchHTML)
	assert.Contains(t, *got.PitchHTML, "<h1")
	assert.Len(t, got.EditorPicks, 2)
	assert.Equal(t, "e1", got.EditorPicks[0].ID)
	assert.Equal(t, author, got.Pitch.Author)
	store.AssertExpectations(t)
}

func TestGetPitchDetail_MissingAuthorAndFailedPicks(t *testing.T) {
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s2").
		Return(&model.Pitch{ID: "s2", Pitch: strPtr("text")}, nil)
	store.On("FetchByFilter", mock.Anything, editorPicks).
		Return(nil, errors.New("connection reset"))

	got, err := newTestService(store).GetPitchDetail(context.Background(), "s2")

	require.NoError(t, err)
	require.NotNil(t, got.Pitch.Author)
	assert.Equal(t, model.Author{
		ID:       "unknown",
		Name:     "Unknown Author",
		Username: "anonymous",
		Image:    "/default-avatar.png",
	}, *got.Pitch.Author)
	assert.NotNil(t, got.EditorPicks)
	assert.Empty(t, got.EditorPicks)
}

func TestGetPitchDetail_NotFound(t *testing.T) {
	outcomes := map[string]func(*mock.Call){
		"picks ok":     func(c *mock.Call) { c.Return(&model.Collection{Select: []model.CollectionEntry{{ID: "e1"}}}, nil) },
		"picks nil":    func(c *mock.Call) { c.Return(nil, nil) },
		"picks failed": func(c *mock.Call) { c.Return(nil, errors.New("boom")) },
	}

	for name, setup := range outcomes {
		t.Run(name, func(t *testing.T) {
			store := new(mockContentStore)
			store.On("FetchByKey", mock.Anything, "s3").Return(nil, nil)
			setup(store.On("FetchByFilter", mock.Anything, editorPicks))

			got, err := newTestService(store).GetPitchDetail(context.Background(), "s3")

			assert.Nil(t, got)
			assert.ErrorIs(t, err, model.ErrPitchNotFound)
			store.AssertExpectations(t)
		})
	}
}

func TestGetPitchDetail_SourceUnavailable(t *testing.T) {
	store := new(mockContentStore)
	storeErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	store.On("FetchByKey", mock.Anything, "s4").Return(nil, storeErr)
	store.On("FetchByFilter", mock.Anything, editorPicks).Return(&model.Collection{}, nil)

	got, err := newTestService(store).GetPitchDetail(context.Background(), "s4")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, model.ErrPitchNotFound)
	store.AssertExpectations(t)
}

func TestGetPitchDetail_BlankPitchBodyHasNoHTML(t *testing.T) {
	bodies := []*string{nil, strPtr(""), strPtr("   "), strPtr("\n\t \n")}

	for _, body := range bodies {
		store := new(mockContentStore)
		store.On("FetchByKey", mock.Anything, "s5").Return(&model.Pitch{ID: "s5", Pitch: body}, nil)
		store.On("FetchByFilter", mock.Anything, editorPicks).Return(nil, nil)

		got, err := newTestService(store).GetPitchDetail(context.Background(), "s5")

		require.NoError(t, err)
		assert.Nil(t, got.PitchHTML)
	}
}

func TestGetPitchDetail_RenderFailureDegradesToNoDetails(t *testing.T) {
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s6").Return(&model.Pitch{ID: "s6", Pitch: strPtr("# x")}, nil)
	store.On("FetchByFilter", mock.Anything, editorPicks).Return(nil, nil)

	svc := NewService(store, failingRenderer{}, Options{})
	got, err := svc.GetPitchDetail(context.Background(), "s6")

	require.NoError(t, err)
	assert.Nil(t, got.PitchHTML)
}

func TestGetPitchDetail_SanitizesInjectedScript(t *testing.T) {
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s7").
		Return(&model.Pitch{ID: "s7", Pitch: strPtr("Hi\n\n<script>alert('x')</script>")}, nil)
	store.On("FetchByFilter", mock.Anything, editorPicks).Return(nil, nil)

	got, err := newTestService(store).GetPitchDetail(context.Background(), "s7")

	require.NoError(t, err)
	require.NotNil(t, got.PitchHTML)
	assert.NotContains(t, strings.ToLower(*got.PitchHTML), "<script")
}

func TestGetPitchDetail_InvalidID(t *testing.T) {
	store := new(mockContentStore)
	svc := newTestService(store)

	for _, id := range []string{"", "   ", strings.Repeat("x", model.MaxPitchIDLength+1)} {
		_, err := svc.GetPitchDetail(context.Background(), id)
		assert.ErrorIs(t, err, model.ErrInvalidPitchID)
	}
	store.AssertNotCalled(t, "FetchByKey", mock.Anything, mock.Anything)
}

func TestValidatePitchID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "s1", "s1", false},
		{"trims whitespace", "  s1\t", "s1", false},
		{"max length", strings.Repeat("x", model.MaxPitchIDLength), strings.Repeat("x", model.MaxPitchIDLength), false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"too long", strings.Repeat("x", model.MaxPitchIDLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidatePitchID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidPitchID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetPitchDetail_TrimsID(t *testing.T) {
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s1").Return(&model.Pitch{ID: "s1"}, nil)
	store.On("FetchByFilter", mock.Anything, mock.Anything).Return(nil, nil)

	got, err := newTestService(store).GetPitchDetail(context.Background(), " s1 ")

	require.NoError(t, err)
	assert.Equal(t, "s1", got.Pitch.ID)
	store.AssertExpectations(t)
}

func TestGetPitchDetail_CustomEditorPicksSlug(t *testing.T) {
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s1").Return(&model.Pitch{ID: "s1"}, nil)
	store.On("FetchByFilter", mock.Anything, model.CollectionFilter{Slug: "staff-picks"}).Return(nil, nil)

	svc := NewService(store, markdown.NewGoldmarkRenderer(""), Options{EditorPicksSlug: "staff-picks"})
	_, err := svc.GetPitchDetail(context.Background(), "s1")

	require.NoError(t, err)
	store.AssertExpectations(t)
}

// Both fetches must be in flight at the same time: each one waits for the
// other to start before returning.
func TestGetPitchDetail_FetchesConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(2)
	bothStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(bothStarted)
	}()

	waitForPeer := func(mock.Arguments) {
		started.Done()
		select {
		case <-bothStarted:
		case <-time.After(2 * time.Second):
		}
	}

	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s1").Run(waitForPeer).Return(&model.Pitch{ID: "s1"}, nil)
	store.On("FetchByFilter", mock.Anything, editorPicks).Run(waitForPeer).Return(nil, nil)

	start := time.Now()
	_, err := newTestService(store).GetPitchDetail(context.Background(), "s1")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

// A slow editor-picks fetch is still awaited when the pitch fetch fails.
func TestGetPitchDetail_WaitsForBothFetches(t *testing.T) {
	var picksDone bool
	store := new(mockContentStore)
	store.On("FetchByKey", mock.Anything, "s1").Return(nil, errors.New("timeout"))
	store.On("FetchByFilter", mock.Anything, editorPicks).
		Run(func(mock.Arguments) {
			time.Sleep(50 * time.Millisecond)
			picksDone = true
		}).
		Return(nil, nil)

	_, err := newTestService(store).GetPitchDetail(context.Background(), "s1")

	assert.ErrorIs(t, err, model.ErrSourceUnavailable)
	assert.True(t, picksDone)
}
