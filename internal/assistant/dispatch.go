package assistant

import (
	"net/url"

	"sidesearch/internal/models"
	"sidesearch/internal/urltemplate"
)

// OpenAction is the decided destination hand-off. Dismiss tells the caller
// the session surface may close once the URL is handed to the platform
// opener.
type OpenAction struct {
	URL      *url.URL
	Embedded bool
	Dismiss  bool
}

// DecideOpen chooses between the embedded browser and the generic opener.
// Only web schemes can go embedded; everything else falls through to the
// platform opener regardless of preference.
func DecideOpen(u *url.URL, pref models.OpenInOption) OpenAction {
	if pref == models.OpenInAppBrowser && urltemplate.IsEmbeddableInBrowser(u) {
		return OpenAction{URL: u, Embedded: true}
	}
	return OpenAction{URL: u, Dismiss: true}
}

// EffectiveOpenIn locks the preference to the default app whenever the
// configured template's scheme is not web, since the embedded browser
// cannot load it. Recomputed on every template change.
func EffectiveOpenIn(template string, pref models.OpenInOption) models.OpenInOption {
	u, err := urltemplate.BuildURL(template, "test", urltemplate.Options{})
	if err == nil && !urltemplate.IsEmbeddableInBrowser(u) {
		return models.OpenInDefaultApp
	}
	return pref
}
