package internal

import (
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// SmartLink is a URL extracted from free-form text plus the residual
// label. URL is empty when the input contained no link; callers must
// render such entries as plain text.
type SmartLink struct {
	URL  string
	Text string
}

// ParseSmartLink locates the first http/https URL in a free-form string
// and derives a display label from the remainder. A bare URL labels
// itself with its host name; a malformed bare URL falls back to a fixed
// literal.
func ParseSmartLink(input string) SmartLink {
	match := urlPattern.FindString(input)
	if match == "" {
		return SmartLink{}
	}

	text := strings.TrimSpace(strings.Replace(input, match, "", 1))
	text = strings.TrimRight(text, ":- \t")

	if text == "" {
		if u, err := url.Parse(match); err == nil && u.Hostname() != "" {
			text = u.Hostname()
		} else {
			text = "External Link"
		}
	}

	return SmartLink{URL: match, Text: text}
}
