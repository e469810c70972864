// Package urltemplate turns a stored URL template and a free-text query
// into a validated destination URL. The two-character token %s is the sole
// substitution marker; this is a wire-level contract, not configurable.
package urltemplate

import (
	"errors"
	"net/url"
	"strings"
)

// Placeholder is the substitution token recognized in every template.
const Placeholder = "%s"

// ErrInvalidTemplate is returned when a template is empty or does not
// produce a parseable URL after substitution.
var ErrInvalidTemplate = errors.New("invalid URL template")

// Options controls how the query is processed before substitution.
type Options struct {
	// MaxQueryLength truncates the query to at most this many characters
	// before encoding. Zero means unlimited. The cut is a hard character
	// cut with no word-boundary awareness.
	MaxQueryLength int

	// DisablePercentEncoding substitutes the query verbatim.
	DisablePercentEncoding bool
}

// BuildURL substitutes query into every occurrence of the placeholder in
// template and parses the result. An empty query substitutes nothing, so a
// template without a placeholder acts as a literal destination.
//
// Non-web schemes are accepted here; launching another app via its URL
// scheme is a supported use case. Callers that need an embedded browser
// must check IsEmbeddableInBrowser separately.
func BuildURL(template, query string, opts Options) (*url.URL, error) {
	if strings.TrimSpace(template) == "" {
		return nil, ErrInvalidTemplate
	}

	raw := template
	if query != "" {
		q := query
		if opts.MaxQueryLength > 0 {
			if runes := []rune(q); len(runes) > opts.MaxQueryLength {
				q = string(runes[:opts.MaxQueryLength])
			}
		}
		if !opts.DisablePercentEncoding {
			q = percentEncode(q)
		}
		raw = strings.ReplaceAll(raw, Placeholder, q)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, ErrInvalidTemplate
	}
	return u, nil
}

// NeedsQueryInput reports whether the raw template contains the placeholder
// token, independent of any substitution. Used to decide whether to prompt
// for voice or text input before dispatch.
func NeedsQueryInput(template string) bool {
	return strings.Contains(template, Placeholder)
}

// IsEmbeddableInBrowser reports whether u can be loaded by an in-app
// browser, which only handles web schemes.
func IsEmbeddableInBrowser(u *url.URL) bool {
	if u == nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

const upperhex = "0123456789ABCDEF"

// percentEncode escapes everything outside the RFC 3986 unreserved set,
// so reserved query characters (space, &, ?, =) never leak into the
// template unescaped. Space becomes %20, not +.
func percentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xf])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}
