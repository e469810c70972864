package assistant

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"sidesearch/internal/models"
	"sidesearch/internal/services"
)

type memoryBlobs struct {
	data map[string][]byte
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{data: make(map[string][]byte)}
}

func (m *memoryBlobs) Load(ctx context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryBlobs) Save(ctx context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryBlobs) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func newTestURLBackend(t *testing.T) (*URLBackend, *memoryBlobs) {
	t.Helper()
	presets, err := services.NewPresetService(services.NewGeoServiceFor("US", []string{"en-US"}))
	if err != nil {
		t.Fatalf("load presets: %v", err)
	}
	blobs := newMemoryBlobs()
	return NewURLBackend(blobs, presets, zerolog.Nop()), blobs
}

func TestURLBackendLoadDefaultsWhenUnset(t *testing.T) {
	b, _ := newTestURLBackend(t)

	engine := b.Load(context.Background())
	assert.NotEmpty(t, engine.Name)
	assert.Contains(t, engine.URL, "%s")
}

func TestURLBackendSaveRoundTrip(t *testing.T) {
	b, _ := newTestURLBackend(t)
	ctx := context.Background()

	engine := models.SearchEngineModel{
		Name:   "Custom",
		URL:    "https://custom.example/?q=%s",
		OpenIn: models.OpenInAppBrowser,
	}
	assert.NoError(t, b.Save(ctx, engine))

	loaded := b.Load(ctx)
	assert.Equal(t, "Custom", loaded.Name)
	assert.Equal(t, "https://custom.example/?q=%s", loaded.URL)
	assert.Equal(t, models.OpenInAppBrowser, loaded.OpenIn)
}

func TestURLBackendSaveLocksOpenInForAppSchemes(t *testing.T) {
	b, _ := newTestURLBackend(t)
	ctx := context.Background()

	engine := models.SearchEngineModel{
		Name:   "Shortcut",
		URL:    "shortcuts://run-shortcut?name=ask&input=%s",
		OpenIn: models.OpenInAppBrowser,
	}
	assert.NoError(t, b.Save(ctx, engine))

	loaded := b.Load(ctx)
	assert.Equal(t, models.OpenInDefaultApp, loaded.OpenIn)
}

func TestURLBackendLoadRecoversFromCorruptBlob(t *testing.T) {
	b, blobs := newTestURLBackend(t)
	ctx := context.Background()
	blobs.data[urlSettingsKey] = []byte("{not json")

	engine := b.Load(ctx)
	assert.NotEmpty(t, engine.Name, "corrupt settings fall back to the preset default")
}

func TestURLBackendNeedsQueryInput(t *testing.T) {
	b, _ := newTestURLBackend(t)
	ctx := context.Background()

	assert.NoError(t, b.Save(ctx, models.SearchEngineModel{
		Name: "literal", URL: "https://example.com/home", OpenIn: models.OpenInAppBrowser,
	}))
	assert.False(t, b.NeedsQueryInput(ctx))

	assert.NoError(t, b.Save(ctx, models.SearchEngineModel{
		Name: "templated", URL: "https://example.com/?q=%s", OpenIn: models.OpenInAppBrowser,
	}))
	assert.True(t, b.NeedsQueryInput(ctx))
}

func TestURLBackendOpenDirect(t *testing.T) {
	b, _ := newTestURLBackend(t)
	ctx := context.Background()

	assert.NoError(t, b.Save(ctx, models.SearchEngineModel{
		Name: "bookmark", URL: "https://example.com/home", OpenIn: models.OpenInAppBrowser,
	}))

	action, err := b.OpenDirect(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/home", action.URL.String())
	assert.True(t, action.Embedded)
}

func TestURLResponderBuildsDestination(t *testing.T) {
	r := &urlResponder{engine: models.SearchEngineModel{
		Name:   "Example",
		URL:    "https://example.com/?q=%s",
		OpenIn: models.OpenInDefaultApp,
	}}

	res, err := r.respond(context.Background(), "a b")
	assert.NoError(t, err)
	assert.NotNil(t, res.navigate)
	assert.Equal(t, "https://example.com/?q=a%20b", res.navigate.URL.String())
	assert.True(t, res.dismiss)
	if assert.Len(t, res.sources, 1) {
		assert.Equal(t, "Example", res.sources[0].Title)
	}
}

func TestURLResponderSurfacesTemplateErrors(t *testing.T) {
	r := &urlResponder{engine: models.SearchEngineModel{Name: "broken", URL: ""}}

	_, err := r.respond(context.Background(), "query")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search engine settings")
}
