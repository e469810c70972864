package assistant

import (
	"net/url"
	"testing"

	"sidesearch/internal/models"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestDecideOpen(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		pref     models.OpenInOption
		embedded bool
		dismiss  bool
	}{
		{"web url in-app", "https://example.com/?q=x", models.OpenInAppBrowser, true, false},
		{"web url default app", "https://example.com/?q=x", models.OpenInDefaultApp, false, true},
		{"app scheme ignores in-app pref", "shortcuts://run?input=x", models.OpenInAppBrowser, false, true},
		{"app scheme default app", "shortcuts://run?input=x", models.OpenInDefaultApp, false, true},
	}

	for _, tc := range cases {
		action := DecideOpen(mustParse(t, tc.raw), tc.pref)
		if action.Embedded != tc.embedded {
			t.Fatalf("%s: Embedded = %v, want %v", tc.name, action.Embedded, tc.embedded)
		}
		if action.Dismiss != tc.dismiss {
			t.Fatalf("%s: Dismiss = %v, want %v", tc.name, action.Dismiss, tc.dismiss)
		}
		if action.URL == nil {
			t.Fatalf("%s: URL must always be set", tc.name)
		}
	}
}

func TestEffectiveOpenIn(t *testing.T) {
	// A non-web template pins the preference to the default app.
	if got := EffectiveOpenIn("shortcuts://run?input=%s", models.OpenInAppBrowser); got != models.OpenInDefaultApp {
		t.Fatalf("non-web template: got %q, want defaultApp", got)
	}
	// Web templates keep whatever the user chose.
	if got := EffectiveOpenIn("https://example.com/?q=%s", models.OpenInAppBrowser); got != models.OpenInAppBrowser {
		t.Fatalf("web template: got %q, want inAppBrowser", got)
	}
	if got := EffectiveOpenIn("https://example.com/?q=%s", models.OpenInDefaultApp); got != models.OpenInDefaultApp {
		t.Fatalf("web template: got %q, want defaultApp", got)
	}
	// Broken templates keep the stored preference untouched.
	if got := EffectiveOpenIn("", models.OpenInAppBrowser); got != models.OpenInAppBrowser {
		t.Fatalf("broken template: got %q, want inAppBrowser", got)
	}
}
