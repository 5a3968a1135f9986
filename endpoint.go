package netbird

import (
	"regexp"
	"strings"
)

var duplicateSlashes = regexp.MustCompile(`/+`)

// FormatEndpoint normalizes an API endpoint path. It trims whitespace,
// collapses duplicate slashes and ensures exactly one leading /api prefix,
// regardless of how the caller wrote the path. The function is idempotent:
//
//	FormatEndpoint("peers")        // "/api/peers"
//	FormatEndpoint("/peers")       // "/api/peers"
//	FormatEndpoint("api/peers")    // "/api/peers"
//	FormatEndpoint("//api//peers") // "/api/peers"
func FormatEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	endpoint = duplicateSlashes.ReplaceAllString(endpoint, "/")
	endpoint = strings.Trim(endpoint, "/")

	if endpoint == "" || endpoint == "api" {
		return "/api"
	}

	if !strings.HasPrefix(endpoint, "api/") {
		endpoint = "api/" + endpoint
	}

	return "/" + endpoint
}
