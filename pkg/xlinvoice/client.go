package xlinvoice

import (
	"regexp"
	"strings"
)

var (
	// 2024, 202401, 2024-01, 2024/01/15
	reYearToken = regexp.MustCompile(`\d{4}[-/]?\d{0,2}[-/]?\d{0,2}`)
	// Jan, Jan., March 5, Mar15; whole month words only, so "Mayer" survives.
	reMonthToken = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)(?:\.|\s*\d+|\b)`)
)

// InferClientName derives the client grouping key from a sheet name by
// removing date tokens, e.g. "Acme Corp 2024-01" gives "Acme Corp". A name
// that is nothing but date tokens is returned unchanged.
func InferClientName(sheetName string) string {
	name := reYearToken.ReplaceAllString(sheetName, "")
	name = reMonthToken.ReplaceAllString(name, "")
	name = strings.Trim(name, " -_/")
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return sheetName
	}
	return name
}
