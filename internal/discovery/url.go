package discovery

import (
	"net/url"
	"strings"
)

const (
	davSuffix       = "/dav"
	directoriesPath = "/api/files/get-directories"
)

// NormalizeBaseURL strips a trailing "/dav" path segment from a WebDAV URL.
// The discovery API is a sibling of the WebDAV mount, not a child of it.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")

	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(base, davSuffix)
	}

	u.Path = strings.TrimRight(strings.TrimSuffix(u.Path, davSuffix), "/")
	u.RawPath = ""
	return u.String()
}

func directoriesURL(baseURL string) string {
	return NormalizeBaseURL(baseURL) + directoriesPath
}
