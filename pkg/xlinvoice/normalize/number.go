package normalize

import "regexp"

var reNonNumeric = regexp.MustCompile(`[^0-9.]`)

// digitsOnly keeps ASCII digits and dots after width folding. Signs are dropped.
func digitsOnly(s string) string {
	return reNonNumeric.ReplaceAllString(Fold(s), "")
}

// ParseQuantity strips everything but digits and dots; empty or unparseable input yields 1.
func ParseQuantity(s string) float64 {
	cleaned := digitsOnly(s)
	if cleaned == "" {
		return 1
	}
	v, ok := parseFloat(cleaned)
	if !ok {
		return 1
	}
	return v
}

// ParsePercentage reads a tax rate as a fraction. The number is divided by 100,
// and again by 100 if it still exceeds 1, so "10", "10%" and "1000" all give 0.1.
// This is a scaling heuristic: "0.1" gives 0.001. Empty or unparseable input yields 0.
func ParsePercentage(s string) float64 {
	cleaned := digitsOnly(s)
	if cleaned == "" {
		return 0
	}
	v, ok := parseFloat(cleaned)
	if !ok {
		return 0
	}
	rate := v / 100
	if rate > 1 {
		rate /= 100
	}
	return rate
}

// ParseRate reads a tax rate that may be written either as a fraction or as a
// percentage: values up to 1 are kept, larger values are divided by 100.
// Empty or unparseable input yields 0.
func ParseRate(s string) float64 {
	cleaned := digitsOnly(s)
	if cleaned == "" {
		return 0
	}
	v, ok := parseFloat(cleaned)
	if !ok {
		return 0
	}
	if v > 1 {
		return v / 100
	}
	return v
}
