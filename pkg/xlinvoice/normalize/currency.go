package normalize

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the code used when an amount carries no recognizable symbol.
const DefaultCurrency = "USD"

// ErrAmountOutOfRange indicates a money amount that does not fit in an int64.
var ErrAmountOutOfRange = errors.New("amount out of int64 range")

// amountLimit is 2^63; finite values of this magnitude or more do not fit in an int64.
const amountLimit = 1 << 63

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// Symbol maps a currency marker to its ISO 4217 code.
type Symbol struct {
	Mark string
	Code string
}

// SymbolTable is an immutable set of currency markers. Prefixes are ordered
// longest first, so "A$" is tried before "$".
type SymbolTable struct {
	prefixes []Symbol
	suffixes []Symbol
}

// NewSymbolTable copies and orders the given markers. Suffixes are trailing
// markers such as "円".
func NewSymbolTable(prefixes, suffixes []Symbol) SymbolTable {
	return SymbolTable{prefixes: longestFirst(prefixes), suffixes: longestFirst(suffixes)}
}

func longestFirst(in []Symbol) []Symbol {
	out := append([]Symbol(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Mark) > len(out[j].Mark)
	})
	return out
}

// DefaultSymbols returns the symbols seen in migrated invoices.
func DefaultSymbols() SymbolTable {
	return NewSymbolTable([]Symbol{
		{"A$", "AUD"},
		{"C$", "CAD"},
		{"S$", "SGD"},
		{"NZ$", "NZD"},
		{"$", "USD"},
		{"€", "EUR"},
		{"£", "GBP"},
		{"¥", "JPY"},
	}, []Symbol{{"円", "JPY"}})
}

// Prefixes returns the prefixes in match order.
func (t SymbolTable) Prefixes() []Symbol {
	return append([]Symbol(nil), t.prefixes...)
}

// Amount is a parsed currency value. It is never absent: unparseable input gives Value 0.
type Amount struct {
	Code  string
	Value float64
}

// ParseCurrency parses s with the default symbols and "USD" as fallback code.
func ParseCurrency(s string) Amount {
	return DefaultSymbols().Parse(s, DefaultCurrency)
}

// Parse strips thousands separators and whitespace, matches the longest known
// prefix (or a known suffix) and parses the remainder. A matched symbol with an
// unparseable remainder yields (code, 0); no symbol yields (defaultCode, value)
// or (defaultCode, 0).
func (t SymbolTable) Parse(s, defaultCode string) Amount {
	if defaultCode == "" {
		defaultCode = DefaultCurrency
	}
	s = Fold(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Amount{Code: defaultCode}
	}

	for _, sym := range t.suffixes {
		if rest, ok := strings.CutSuffix(s, sym.Mark); ok {
			v, _ := parseFloat(rest)
			return Amount{Code: sym.Code, Value: v}
		}
	}
	for _, sym := range t.prefixes {
		if rest, ok := strings.CutPrefix(s, sym.Mark); ok {
			v, _ := parseFloat(rest)
			return Amount{Code: sym.Code, Value: v}
		}
	}
	v, _ := parseFloat(s)
	return Amount{Code: defaultCode, Value: v}
}

// parseFloat parses a finite real number whose integer part fits in an int64.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !InAmountRange(v) {
		return 0, false
	}
	return v, true
}

// InAmountRange reports whether v is finite and truncates to an int64 without overflow.
func InAmountRange(v float64) bool {
	return !math.IsNaN(v) && math.Abs(v) < amountLimit
}

// ToAmount truncates v toward zero, failing when it does not fit in an int64.
func ToAmount(v float64) (int64, error) {
	if !InAmountRange(v) {
		return 0, ErrAmountOutOfRange
	}
	return int64(v), nil
}

var one = decimal.NewFromInt(1)

// LineAmount returns floor(unitCost * quantity * (1 + taxRate)) computed in
// decimal so that 100 * 1.1 floors to 110 rather than 109. It fails with
// ErrAmountOutOfRange when an input or the result does not fit in an int64.
func LineAmount(unitCost, quantity, taxRate float64) (int64, error) {
	for _, v := range []float64{unitCost, quantity, taxRate} {
		if !InAmountRange(v) {
			return 0, ErrAmountOutOfRange
		}
	}
	total := decimal.NewFromFloat(unitCost).
		Mul(decimal.NewFromFloat(quantity)).
		Mul(one.Add(decimal.NewFromFloat(taxRate))).
		Floor()
	if total.GreaterThan(maxAmount) || total.LessThan(minAmount) {
		return 0, ErrAmountOutOfRange
	}
	return total.IntPart(), nil
}

// SumAmounts adds amounts, failing with ErrAmountOutOfRange on overflow.
func SumAmounts(amounts ...int64) (int64, error) {
	var sum int64
	for _, a := range amounts {
		next := sum + a
		if (a > 0 && next < sum) || (a < 0 && next > sum) {
			return 0, ErrAmountOutOfRange
		}
		sum = next
	}
	return sum, nil
}
