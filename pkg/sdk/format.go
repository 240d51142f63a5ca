package sdk

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PageOptions is the paging state of a data table.
type PageOptions struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
}

// PaginationSummary renders the "Showing x to y of z entries" footer.
func PaginationSummary(opts PageOptions, total int) string {
	start := (opts.CurrentPage-1)*opts.PerPage + 1
	end := min(opts.CurrentPage*opts.PerPage, total)
	return fmt.Sprintf("Showing %d to %d of %d entries", start, end, total)
}

var (
	upper = cases.Upper(language.Und)
	lower = cases.Lower(language.Und)
)

// CapitalizeWords upper-cases the first letter of every space-separated word
// and lower-cases the rest. Runs of spaces are preserved.
func CapitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + lower.String(w[size:])
	}
	return strings.Join(words, " ")
}
