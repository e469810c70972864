package urltemplate

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	cases := []struct {
		name     string
		template string
		query    string
		opts     Options
		expected string
	}{
		{
			"simple substitution",
			"https://example.com/search?q=%s", "a b", Options{},
			"https://example.com/search?q=a%20b",
		},
		{
			"reserved characters escaped",
			"https://example.com/?q=%s", "a&b=c?d", Options{},
			"https://example.com/?q=a%26b%3Dc%3Fd",
		},
		{
			"multiple placeholders",
			"https://example.com/%s/again/%s", "x", Options{},
			"https://example.com/x/again/x",
		},
		{
			"empty query leaves template untouched",
			"https://example.com/search?q=%s", "", Options{},
			"https://example.com/search?q=%s",
		},
		{
			"literal template ignores query",
			"https://example.com/home", "anything", Options{},
			"https://example.com/home",
		},
		{
			"encoding disabled",
			"https://example.com/?q=%s", "a b", Options{DisablePercentEncoding: true},
			"https://example.com/?q=a b",
		},
		{
			"non-web scheme",
			"shortcuts://run?input=%s", "hello", Options{},
			"shortcuts://run?input=hello",
		},
		{
			"unicode escaped bytewise",
			"https://example.com/?q=%s", "café", Options{},
			"https://example.com/?q=caf%C3%A9",
		},
	}

	for _, tc := range cases {
		u, err := BuildURL(tc.template, tc.query, tc.opts)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		parsed, _ := url.Parse(tc.expected)
		if u.String() != parsed.String() {
			t.Fatalf("%s: got %q, want %q", tc.name, u.String(), parsed.String())
		}
	}
}

func TestBuildURLTruncatesByRune(t *testing.T) {
	u, err := BuildURL("https://example.com/?q=%s", "ありがとう", Options{MaxQueryLength: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(u.RawQuery, percentEncode("ありが")) {
		t.Fatalf("expected first three runes only, got %q", u.RawQuery)
	}
}

func TestBuildURLTruncatesBeforeEncoding(t *testing.T) {
	// A three-byte rune under a one-character budget must survive whole;
	// cutting encoded bytes would split it.
	u, err := BuildURL("https://example.com/?q=%s", "あxyz", Options{MaxQueryLength: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.RawQuery != "q="+percentEncode("あ") {
		t.Fatalf("got %q", u.RawQuery)
	}
}

func TestBuildURLRejectsBadTemplates(t *testing.T) {
	cases := []struct {
		name     string
		template string
		query    string
	}{
		{"empty template", "", "q"},
		{"whitespace template", "   ", "q"},
		{"no scheme", "example.com/?q=%s", "q"},
		{"relative path", "/search?q=%s", "q"},
	}
	for _, tc := range cases {
		if _, err := BuildURL(tc.template, tc.query, Options{}); !errors.Is(err, ErrInvalidTemplate) {
			t.Fatalf("%s: expected ErrInvalidTemplate, got %v", tc.name, err)
		}
	}
}

func TestNeedsQueryInput(t *testing.T) {
	if !NeedsQueryInput("https://example.com/?q=%s") {
		t.Fatal("placeholder template should need input")
	}
	if NeedsQueryInput("https://example.com/home") {
		t.Fatal("literal template should not need input")
	}
	if NeedsQueryInput("") {
		t.Fatal("empty template should not need input")
	}
}

func TestIsEmbeddableInBrowser(t *testing.T) {
	cases := []struct {
		raw      string
		expected bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"HTTPS://example.com", true},
		{"shortcuts://run", false},
		{"mailto:someone@example.com", false},
	}
	for _, tc := range cases {
		u, err := url.Parse(tc.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		if got := IsEmbeddableInBrowser(u); got != tc.expected {
			t.Fatalf("%q: got %v, want %v", tc.raw, got, tc.expected)
		}
	}
	if IsEmbeddableInBrowser(nil) {
		t.Fatal("nil URL should not be embeddable")
	}
}

func TestPercentEncodeSpaceIsNotPlus(t *testing.T) {
	if got := percentEncode("a b"); got != "a%20b" {
		t.Fatalf("got %q, want a%%20b", got)
	}
}
