package services

import (
	"os"
	"strings"
)

// GeoService answers region and language questions used for regional
// blocking and preset localization. The region comes from
// SIDESEARCH_REGION when set, otherwise from the locale environment.
type GeoService struct {
	region    string
	languages []string
}

func NewGeoService() *GeoService {
	return &GeoService{
		region:    detectRegion(),
		languages: detectLanguages(),
	}
}

// NewGeoServiceFor builds a service with fixed values; used in tests and
// by callers that resolve locale through other means.
func NewGeoServiceFor(region string, languages []string) *GeoService {
	return &GeoService{region: region, languages: languages}
}

func (g *GeoService) Region() string {
	return g.region
}

func (g *GeoService) PreferredLanguages() []string {
	return g.languages
}

// ContainsLanguage reports whether any preferred language matches the
// given code, either exactly or as the language part of a locale tag
// ("zh-Hans" matches "zh-Hans-CN").
func (g *GeoService) ContainsLanguage(code string) bool {
	code = strings.ToLower(code)
	for _, lang := range g.languages {
		l := strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
		if l == code || strings.HasPrefix(l, code+"-") {
			return true
		}
	}
	return false
}

func detectRegion() string {
	if region := os.Getenv("SIDESEARCH_REGION"); region != "" {
		return strings.ToUpper(region)
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		// e.g. "en_US.UTF-8" -> "US"
		v = strings.SplitN(v, ".", 2)[0]
		v = strings.ReplaceAll(v, "-", "_")
		parts := strings.Split(v, "_")
		if len(parts) >= 2 && len(parts[1]) == 2 {
			return strings.ToUpper(parts[1])
		}
	}
	return ""
}

func detectLanguages() []string {
	if raw := os.Getenv("SIDESEARCH_LANGUAGES"); raw != "" {
		var langs []string
		for _, l := range strings.Split(raw, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		return langs
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		v = strings.SplitN(v, ".", 2)[0]
		return []string{strings.ReplaceAll(v, "_", "-")}
	}
	return nil
}
