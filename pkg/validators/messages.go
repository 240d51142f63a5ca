package validators

import (
	"sort"
	"strings"
)

// JoinMessages flattens a backend validation payload
// ({"email": ["taken"], "name": ["too short", "required"]}) into a single
// line. Fields are visited in sorted order so the output is stable.
func JoinMessages(errs map[string][]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		parts = append(parts, errs[field]...)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
