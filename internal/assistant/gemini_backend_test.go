package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"sidesearch/internal/llm/gemini"
	"sidesearch/internal/models"
	"sidesearch/internal/services"
)

func TestGeminiBackendBlockedByRegion(t *testing.T) {
	blobs := newMemoryBlobs()
	keyring := services.NewKeyringService()

	cn := NewGeminiBackend(blobs, keyring, services.NewGeoServiceFor("CN", nil), zerolog.Nop())
	assert.True(t, cn.IsBlocked())

	us := NewGeminiBackend(blobs, keyring, services.NewGeoServiceFor("US", nil), zerolog.Nop())
	assert.False(t, us.IsBlocked())
}

func TestGeminiBackendSettingsRoundTrip(t *testing.T) {
	blobs := newMemoryBlobs()
	b := NewGeminiBackend(blobs, services.NewKeyringService(), services.NewGeoServiceFor("US", nil), zerolog.Nop())
	ctx := context.Background()

	assert.Empty(t, b.Load(ctx).Model, "unset settings decode to the zero model")

	assert.NoError(t, b.Save(ctx, models.GeminiSettings{
		Model:              "gemini-2.5-flash",
		CustomInstructions: "answer briefly",
	}))

	loaded := b.Load(ctx)
	assert.Equal(t, "gemini-2.5-flash", loaded.Model)
	assert.Equal(t, "answer briefly", loaded.CustomInstructions)
}

func TestGeminiBackendNewSessionRequiresModel(t *testing.T) {
	b := NewGeminiBackend(newMemoryBlobs(), services.NewKeyringService(), services.NewGeoServiceFor("US", nil), zerolog.Nop())

	_, err := b.NewSession(context.Background(), SessionConfig{}, Hooks{})
	assert.Error(t, err)
}

func TestGeminiResponderHistoryOnlyGrowsOnSuccess(t *testing.T) {
	var fail bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"reply"}]}}]}`))
	}))
	defer srv.Close()

	r := &geminiResponder{
		client: gemini.NewClient("k", gemini.WithBaseURL(srv.URL)),
		model:  "m",
	}
	ctx := context.Background()

	res, err := r.respond(ctx, "first")
	assert.NoError(t, err)
	assert.Equal(t, "reply", res.message.Content)
	assert.Len(t, r.history, 2, "user turn plus model turn")

	fail = true
	_, err = r.respond(ctx, "second")
	assert.Error(t, err)
	assert.Len(t, r.history, 2, "failed call records no turn")
}

func TestLocalBackendDefaultsModel(t *testing.T) {
	b := NewLocalModelBackend(newMemoryBlobs(), zerolog.Nop())
	ctx := context.Background()

	settings := b.Load(ctx)
	assert.Equal(t, models.DefaultLocalRuntimeURL, settings.BaseURL)
	assert.Empty(t, settings.Model)

	session, err := b.NewSession(ctx, SessionConfig{}, Hooks{})
	assert.NoError(t, err)
	responder, ok := session.responder.(*localResponder)
	if assert.True(t, ok) {
		assert.Equal(t, DefaultLocalModel, responder.model)
	}
}
