// Package locate finds labelled fields in a sheet grid and reads their values.
package locate

import "strings"

// KeywordSet is an immutable list of lower-cased label variants.
type KeywordSet struct {
	words []string
}

// NewKeywordSet lower-cases and copies the given variants, dropping blanks.
func NewKeywordSet(words ...string) KeywordSet {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return KeywordSet{words: out}
}

// Words returns a copy of the variants.
func (k KeywordSet) Words() []string {
	return append([]string(nil), k.words...)
}

// Empty reports whether the set has no variants.
func (k KeywordSet) Empty() bool {
	return len(k.words) == 0
}

// MatchedBy reports whether text contains any variant. text must already be lower-cased.
func (k KeywordSet) MatchedBy(text string) bool {
	for _, w := range k.words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Keywords holds the label sets for the invoice header fields.
type Keywords struct {
	InvoiceNumber KeywordSet
	IssueDate     KeywordSet
	DueDate       KeywordSet
	Total         KeywordSet
}

// DefaultKeywords returns the English and Japanese labels.
func DefaultKeywords() Keywords {
	return Keywords{
		InvoiceNumber: NewKeywordSet("invoice no", "invoice #", "請求書番号", "請求番号", "inv no", "inv #"),
		IssueDate:     NewKeywordSet("invoice date", "請求日", "発行日", "date", "日付"),
		DueDate:       NewKeywordSet("due date", "支払期限", "支払い期限", "payment due", "due"),
		Total:         NewKeywordSet("total", "合計", "請求合計", "小計合計", "grand total", "請求金額"),
	}
}
