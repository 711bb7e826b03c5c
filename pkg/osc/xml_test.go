package osc_test

import (
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUSE/osc-tiny/pkg/osc"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	t.Run("small body with size hint", func(t *testing.T) {
		t.Parallel()

		body := `<directory count="2"><entry name="osc"/><entry name="obs-build"/></directory>`

		doc, err := osc.Materialize(strings.NewReader(body), int64(len(body)))
		require.NoError(t, err)

		entries := xmlquery.Find(doc, "//entry")
		require.Len(t, entries, 2)
		assert.Equal(t, "osc", entries[0].SelectAttr("name"))
	})

	t.Run("unknown size decodes incrementally", func(t *testing.T) {
		t.Parallel()

		body := `<project name="openSUSE:Factory"><title>Factory</title></project>`

		doc, err := osc.Materialize(strings.NewReader(body), -1)
		require.NoError(t, err)

		title := xmlquery.FindOne(doc, "//title")
		require.NotNil(t, title)
		assert.Equal(t, "Factory", title.InnerText())
	})

	t.Run("malformed document", func(t *testing.T) {
		t.Parallel()

		_, err := osc.MaterializeBytes([]byte(`<directory><entry`))
		require.Error(t, err)

		malformed := &osc.MalformedResponseError{}
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("unknown encoding declaration is retried without it", func(t *testing.T) {
		t.Parallel()

		body := `<?xml version="1.0" encoding="ISO-8859-1"?><status code="ok"/>`

		doc, err := osc.MaterializeBytes([]byte(body))
		require.NoError(t, err)

		status := xmlquery.FindOne(doc, "//status")
		require.NotNil(t, status)
		assert.Equal(t, "ok", status.SelectAttr("code"))
	})
}

func TestErrorSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "status with summary",
			body:     `<status code="not_found"><summary>package not found</summary></status>`,
			expected: "package not found",
		},
		{
			name:     "no summary element",
			body:     `<status code="unknown"/>`,
			expected: "",
		},
		{
			name:     "empty body",
			body:     "",
			expected: "",
		},
		{
			name:     "not XML at all",
			body:     `{"error": "nope"`,
			expected: "",
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, osc.ErrorSummary([]byte(testCase.body)))
		})
	}
}
