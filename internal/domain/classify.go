package domain

import (
	"net/url"
	"strings"
	"unicode"
)

// DefaultSearchURL is the query prefix for free-text keywords.
const DefaultSearchURL = "https://www.google.com/search?q="

// Link is the result of classifying a keyword for navigation.
// Classification is re-derived on every call and never stored on the
// keyword itself.
type Link struct {
	// IsURL is true when the keyword parses as a navigable URL.
	IsURL bool

	// URL is the destination: the parsed URL for navigable keywords,
	// empty for free-text terms (compose a search URL via SearchURL).
	URL string

	// Host is the hostname with any leading "www." stripped.
	// Empty for free-text terms.
	Host string
}

// Classify decides whether a keyword is a navigable URL or a free-text
// search term. A keyword is a URL if, after prepending https:// when no
// scheme is present, it parses to a hostname containing at least one dot.
func Classify(keyword string) Link {
	test := keyword
	lower := strings.ToLower(test)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		test = "https://" + test
	}
	parsed, err := url.Parse(test)
	if err != nil || parsed.Hostname() == "" || !strings.Contains(parsed.Hostname(), ".") {
		return Link{}
	}
	return Link{
		IsURL: true,
		URL:   parsed.String(),
		Host:  strings.TrimPrefix(parsed.Hostname(), "www."),
	}
}

// SearchURL composes the web-search URL for a free-text keyword.
// base falls back to DefaultSearchURL when empty.
func SearchURL(keyword, base string) string {
	if base == "" {
		base = DefaultSearchURL
	}
	return base + url.QueryEscape(keyword)
}

// OpenURL resolves the destination for any keyword: the parsed URL for
// navigable ones, a search URL otherwise.
func OpenURL(keyword, searchBase string) string {
	if link := Classify(keyword); link.IsURL {
		return link.URL
	}
	return SearchURL(keyword, searchBase)
}

// wellKnownHosts maps common hostnames to their display names.
var wellKnownHosts = map[string]string{
	"youtube.com":   "YouTube",
	"facebook.com":  "Facebook",
	"twitter.com":   "Twitter",
	"instagram.com": "Instagram",
	"linkedin.com":  "LinkedIn",
	"github.com":    "GitHub",
}

// DisplayName returns a human-friendly label for a keyword: the
// well-known site name for recognized hosts, the capitalized first DNS
// label for other URLs, the keyword itself for free-text terms.
func DisplayName(keyword string) string {
	link := Classify(keyword)
	if !link.IsURL {
		return keyword
	}
	if name, ok := wellKnownHosts[link.Host]; ok {
		return name
	}
	main := link.Host
	if i := strings.IndexByte(main, '.'); i > 0 {
		main = main[:i]
	}
	if main == "" {
		return keyword
	}
	runes := []rune(main)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// FaviconURL returns the favicon lookup URL for a navigable keyword,
// empty for free-text terms.
func FaviconURL(keyword string) string {
	link := Classify(keyword)
	if !link.IsURL {
		return ""
	}
	return "https://www.google.com/s2/favicons?sz=64&domain=" + url.QueryEscape(link.Host)
}
