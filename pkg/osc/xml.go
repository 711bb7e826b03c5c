package osc

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/antchfx/xmlquery"

	"github.com/SUSE/osc-tiny/internal/constants"
)

var encodingDecl = regexp.MustCompile(`encoding="[^"]+"`)

// Materialize turns a response body into a navigable XML tree.
//
// Bodies with a known size at or below the eager parse limit are buffered
// completely first; anything larger or of unknown size is decoded
// incrementally from the reader so peak memory stays bounded by the tree,
// not by an extra copy of the serialized document. Parse failures are
// reported as MalformedResponseError so callers can tell a garbage answer
// apart from transport or authentication failures.
func Materialize(source io.Reader, sizeHint int64) (*xmlquery.Node, error) {
	if sizeHint >= 0 && sizeHint <= constants.DefaultEagerParseLimit {
		data, err := io.ReadAll(source)
		if err != nil {
			return nil, &MalformedResponseError{Err: fmt.Errorf("reading body: %w", err)}
		}

		return MaterializeBytes(data)
	}

	doc, err := xmlquery.Parse(source)
	if err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	return doc, nil
}

// MaterializeBytes parses a fully buffered XML document.
func MaterializeBytes(data []byte) (*xmlquery.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err == nil {
		return doc, nil
	}

	// The build service occasionally serves documents whose encoding
	// declaration the decoder cannot resolve; retry without it.
	if encodingDecl.Match(data) {
		doc, retryErr := xmlquery.Parse(bytes.NewReader(encodingDecl.ReplaceAll(data, nil)))
		if retryErr == nil {
			return doc, nil
		}
	}

	return nil, &MalformedResponseError{Err: err}
}

// ErrorSummary extracts the <summary> element from a build service error
// body. Returns an empty string when the body carries none.
func ErrorSummary(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	doc, err := MaterializeBytes(body)
	if err != nil {
		return ""
	}

	summary := xmlquery.FindOne(doc, "//summary")
	if summary == nil {
		return ""
	}

	return summary.InnerText()
}
