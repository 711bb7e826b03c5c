package osc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// ChangelogSeparator introduces a new entry in a SUSE style .changes file.
const ChangelogSeparator = "-------------------------------------------------------------------"

// changelogTimeLayouts are the timestamp formats observed in .changes
// files; the two-digit-day form is the one the `vc` tool writes.
var changelogTimeLayouts = []string{
	"Mon Jan 02 15:04:05 MST 2006",
	"Mon Jan 2 15:04:05 MST 2006",
}

// ChangelogEntry is one complete entry of a .changes file.
type ChangelogEntry struct {
	// Timestamp of the entry, always rendered in UTC.
	Timestamp time.Time

	// Packager is the author, usually "full name <email@example.com>".
	Packager string

	// Content holds all lines until the next entry, without leading or
	// trailing blank lines.
	Content string
}

// Complete reports whether the entry carries all mandatory parts.
func (e *ChangelogEntry) Complete() bool {
	return !e.Timestamp.IsZero() && e.Packager != "" && e.Content != ""
}

// String renders the entry in the .changes wire format.
func (e *ChangelogEntry) String() string {
	stamp := e.Timestamp.UTC().Format(changelogTimeLayouts[0])

	return fmt.Sprintf("%s\n%s - %s\n\n%s\n", ChangelogSeparator, stamp, e.Packager, strings.TrimSpace(e.Content))
}

// ParseChangelog reads a .changes document into its entries. Header lines
// that cannot be parsed yield an error; malformed content is preserved
// verbatim inside the surrounding entry.
func ParseChangelog(source io.Reader) ([]*ChangelogEntry, error) {
	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		entries []*ChangelogEntry
		current *ChangelogEntry
		content []string
	)

	flush := func() {
		if current == nil {
			return
		}

		current.Content = strings.TrimSpace(strings.Join(content, "\n"))
		entries = append(entries, current)
		current = nil
		content = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "----") && strings.TrimRight(line, "-") == "" {
			flush()

			current = &ChangelogEntry{}

			continue
		}

		if current == nil {
			continue
		}

		if current.Timestamp.IsZero() && strings.TrimSpace(line) != "" {
			stamp, packager, err := parseChangelogHeader(line)
			if err != nil {
				return nil, err
			}

			current.Timestamp = stamp
			current.Packager = packager

			continue
		}

		if !current.Timestamp.IsZero() {
			content = append(content, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	flush()

	return entries, nil
}

// parseChangelogHeader splits "<timestamp> - <packager>".
func parseChangelogHeader(line string) (time.Time, string, error) {
	parts := strings.SplitN(line, " - ", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed changelog header: %q", line)
	}

	stampText := strings.TrimSpace(parts[0])

	for _, layout := range changelogTimeLayouts {
		stamp, err := time.Parse(layout, stampText)
		if err == nil {
			return stamp, strings.TrimSpace(parts[1]), nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unparsable changelog timestamp: %q", stampText)
}

// WriteChangelog renders entries in order, newest first by convention of
// the callers.
func WriteChangelog(sink io.Writer, entries []*ChangelogEntry) error {
	for _, entry := range entries {
		_, err := io.WriteString(sink, entry.String()+"\n")
		if err != nil {
			return fmt.Errorf("writing changelog: %w", err)
		}
	}

	return nil
}
