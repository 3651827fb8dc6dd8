// Package xlinvoice converts invoice workbooks into client, invoice and line
// item records.
//
// Each sheet is treated as one candidate invoice. Header fields are found by
// label keywords, the line-item table by its header row, and amounts, dates
// and rates are normalized on the way. Sheets without invoice data are
// skipped, never partially emitted.
package xlinvoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/locate"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/parser"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/policy"
)

// Options configures extraction behavior.
type Options struct {
	// Keywords are the header field labels.
	Keywords locate.Keywords
	// Roles are the line-item table header labels.
	Roles parser.ColumnRoles
	// Symbols are the recognized currency markers.
	Symbols normalize.SymbolTable
	// Policies are the lossy heuristics; see policy.Default and policy.Strict.
	Policies policy.Policies
	// DefaultCurrency is used when a total carries no currency marker.
	DefaultCurrency string
	// HeaderScanRows bounds the line-item header search.
	HeaderScanRows int
	// UsePrintArea restricts each sheet to its defined print area, if any.
	UsePrintArea bool
	// Now returns the run timestamp. Defaults to time.Now.
	Now func() time.Time
	// NewID returns record identifiers. Defaults to uuid.New.
	NewID func() uuid.UUID
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Keywords:        locate.DefaultKeywords(),
		Roles:           parser.DefaultColumnRoles(),
		Symbols:         normalize.DefaultSymbols(),
		Policies:        policy.Default(),
		DefaultCurrency: normalize.DefaultCurrency,
		HeaderScanRows:  parser.DefaultHeaderScanRows,
		Now:             time.Now,
		NewID:           uuid.New,
	}
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) newID() uuid.UUID {
	if o.NewID == nil {
		return uuid.New()
	}
	return o.NewID()
}

func (o Options) defaultCurrency() string {
	if o.DefaultCurrency == "" {
		return normalize.DefaultCurrency
	}
	return o.DefaultCurrency
}

func (o Options) detector() *parser.LineItemDetector {
	return &parser.LineItemDetector{
		Roles:         o.Roles,
		Symbols:       o.Symbols,
		Policies:      o.Policies,
		MaxHeaderRows: o.HeaderScanRows,
	}
}
