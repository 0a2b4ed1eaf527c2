// Package listfield turns free-text form fields into ordered string lists.
package listfield

import "strings"

// Clean trims every entry and drops the blank ones, keeping order.
func Clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SplitComma parses "Go, Kafka,, Redis ," style input.
func SplitComma(raw string) []string {
	return Clean(strings.Split(raw, ","))
}

// SplitLines parses one entry per line; CRLF input is accepted.
func SplitLines(raw string) []string {
	return Clean(strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n"))
}
