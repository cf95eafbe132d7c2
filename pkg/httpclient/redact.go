package httpclient

import (
	"net/url"
	"strings"
)

// RedactedMarker replaces every query parameter value in rendered URIs.
const RedactedMarker = "<REDACTED>"

// RedactURI returns a copy of u whose query parameter values are all replaced
// with RedactedMarker. Keys and parameter order are preserved. u is not
// modified. A nil u yields nil.
func RedactURI(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}

	redacted := *u
	if u.RawQuery == "" {
		return &redacted
	}

	pairs := strings.Split(u.RawQuery, "&")
	out := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		out = append(out, key+"="+RedactedMarker)
	}
	redacted.RawQuery = strings.Join(out, "&")

	return &redacted
}

// redactString redacts a raw URL string for log output. Unparseable input is
// dropped rather than logged verbatim.
func redactString(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return RedactURI(u).String()
}
