package ot

import (
	"errors"
	"fmt"
	"math"
)

// Error kinds of the decoder. Errors returned by this package wrap one of these,
// so clients may test for them with errors.Is.
var (
	// ErrStructure flags malformed headers, inconsistent counts or offsets,
	// and cyclic glyph references.
	ErrStructure = errors.New("OpenType font structure")
	// ErrOutOfRange flags an attempt to read beyond the bytes of a table.
	ErrOutOfRange = errors.New("OpenType read out of range")
)

// errFontFormat produces user level errors for malformed font data.
func errFontFormat(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrStructure)
}

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates an error in a single table. Other tables are still usable.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated during parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "glyf", "GSUB")
	Section  string        // Specific section within the table (e.g., "Composite", "ScriptList")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
	Err      error         // underlying error, if any
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// Unwrap returns the underlying error.
func (e FontError) Unwrap() error {
	return e.Err
}

// FontWarning represents a non-critical issue encountered during font parsing.
type FontWarning struct {
	Table  Tag    // The OpenType table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

// addError records a parsing error.
func (ec *errorCollector) addError(table Tag, section string, err error, severity ErrorSeverity, offset uint32) {
	if ec == nil {
		return
	}
	tracer().Errorf("%s/%s: %v", table, section, err)
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    err.Error(),
		Severity: severity,
		Offset:   offset,
		Err:      err,
	})
}

// addWarning records a parsing warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	if ec == nil {
		return
	}
	tracer().Infof("%s: %s", table, issue)
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

// hasCriticalErrors returns true if any critical errors have been recorded.
func (ec *errorCollector) hasCriticalErrors() bool {
	for _, err := range ec.errors {
		if err.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------

// Maximum reasonable counts for OpenType table structures.
// These limits prevent malicious fonts from claiming unreasonably large counts
// that could lead to excessive memory allocation or out-of-bounds reads.
const (
	MaxTableCount     = 256   // Table directory entries
	MaxGlyphCount     = 65536 // Maximum glyph index (uint16)
	MaxCmapSubtables  = 64    // cmap encoding records
	MaxCmapSegments   = 20000 // cmap format 4/12 segments
	MaxScriptCount    = 50    // Scripts: typically < 10
	MaxLangSysCount   = 200   // LangSys records per script
	MaxFeatureCount   = 500   // Features: typically < 200
	MaxLookupCount    = 1000  // Lookups: typically < 100
	MaxSubtableCount  = 1000  // Subtables per lookup
	MaxCoverageCount  = 65535 // Coverage tables
	MaxCompositeDepth = 32    // nesting of composite glyphs
	MaxCFFIndexCount  = 65535 // objects in a CFF INDEX
)

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two non-negative integers.
func checkedMulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, errFontFormat("negative size: %d * %d", a, b)
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, errFontFormat("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, errFontFormat("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}
