package client

import (
	"net/url"

	"github.com/antchfx/xmlquery"

	oschttp "github.com/SUSE/osc-tiny/internal/http"
	"github.com/SUSE/osc-tiny/pkg/osc"
)

// materialize parses a fully buffered response body into an XML tree.
func materialize(resp *oschttp.Response) (*xmlquery.Node, error) {
	return osc.MaterializeBytes(resp.Body)
}

// boolParam renders a boolean the way the build service expects it. The
// API does not understand "true"/"false".
func boolParam(value bool) string {
	if value {
		return "1"
	}

	return "0"
}

// escapePath escapes one path segment for use in a URL template.
func escapePath(segment string) string {
	return url.PathEscape(segment)
}
