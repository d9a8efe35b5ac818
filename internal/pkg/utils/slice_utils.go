package utils

import "strings"

// UniqueNonEmpty trims every item, drops blanks and keeps only the first occurrence of each value.
func UniqueNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// SplitCSV splits a comma separated list, as used by list-valued environment variables.
func SplitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return UniqueNonEmpty(strings.Split(s, ","))
}
