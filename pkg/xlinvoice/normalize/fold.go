// Package normalize converts raw cell text into canonical amounts, dates and numbers.
//
// Every function here is total: unparseable input resolves to a documented default
// instead of an error, so one malformed cell only degrades a single field.
package normalize

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold maps full-width digits, letters and symbols (１２３, ￥, ＄, ，) to their
// narrow forms and trims surrounding whitespace.
func Fold(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}
