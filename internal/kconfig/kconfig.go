// Package kconfig parses Linux kernel .config files.
package kconfig

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Entry is one configuration option, in file order.
type Entry struct {
	Key   string
	Value string
}

// Parse reads a kernel .config stream. Options disabled through the
// "# CONFIG_X is not set" comment form are recorded with value "n".
// Other comments, blank lines and lines without "=" are skipped.
// Values keep everything after the first "=" with surrounding
// whitespace and double quotes trimmed.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "# CONFIG_") && strings.Contains(line, "is not set"):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			entries = append(entries, Entry{Key: fields[1], Value: "n"})
		case strings.HasPrefix(line, "#"):
			continue
		case strings.Contains(line, "="):
			key, value, _ := strings.Cut(line, "=")
			entries = append(entries, Entry{
				Key:   strings.TrimSpace(key),
				Value: strings.Trim(value, "\" \t\n\r"),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading kernel config: %w", err)
	}
	return entries, nil
}

// Map collapses entries into a lookup map, later entries winning.
func Map(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		m[e.Key] = e.Value
	}
	return m
}
