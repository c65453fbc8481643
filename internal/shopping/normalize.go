package shopping

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName is the single case-folding used for aggregation keys, staple
// matching and check-state keys. A Caser keeps state, so each call gets its own.
func NormalizeName(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}
