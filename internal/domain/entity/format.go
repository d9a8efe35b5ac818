package entity

import "strings"

// OutputFormat selects the response shape of an endpoint.
type OutputFormat string

const (
	FormatDefault OutputFormat = ""
	FormatHuman   OutputFormat = "human"
	FormatRaw     OutputFormat = "raw"
	FormatWei     OutputFormat = "wei"
)

// ParseOutputFormat normalizes the format query value and maps anything not in allowed to FormatDefault.
func ParseOutputFormat(v string, allowed ...OutputFormat) OutputFormat {
	f := OutputFormat(strings.ToLower(strings.TrimSpace(v)))
	for _, a := range allowed {
		if f == a {
			return f
		}
	}
	return FormatDefault
}
