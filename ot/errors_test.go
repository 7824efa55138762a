package ot

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSeverity(t *testing.T) {
	tests := []struct {
		severity ErrorSeverity
		expected string
	}{
		{SeverityCritical, "CRITICAL"},
		{SeverityMajor, "MAJOR"},
		{SeverityMinor, "MINOR"},
		{ErrorSeverity(999), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.severity.String())
	}
}

func TestFontError(t *testing.T) {
	tests := []struct {
		name     string
		err      FontError
		expected string
	}{
		{
			name: "with offset",
			err: FontError{
				Table:    T("glyf"),
				Section:  "Composite",
				Issue:    "cyclic component reference",
				Severity: SeverityCritical,
				Offset:   1234,
			},
			expected: "[CRITICAL] glyf/Composite at offset 1234: cyclic component reference",
		},
		{
			name: "without offset",
			err: FontError{
				Table:    T("cmap"),
				Section:  "Format4",
				Issue:    "segment count odd",
				Severity: SeverityMajor,
			},
			expected: "[MAJOR] cmap/Format4: segment count odd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestFontErrorUnwrap(t *testing.T) {
	ec := &errorCollector{}
	ec.addError(T("loca"), "Parse", errFontFormat("loca offsets not ascending"), SeverityMajor, 0)
	require.Len(t, ec.errors, 1)
	assert.True(t, errors.Is(ec.errors[0], ErrStructure))
	assert.False(t, errors.Is(ec.errors[0], ErrOutOfRange))
}

func TestFontWarning(t *testing.T) {
	w := FontWarning{Table: T("kern"), Issue: "table size mismatch", Offset: 5678}
	assert.Equal(t, "[WARNING] kern at offset 5678: table size mismatch", w.String())
	w = FontWarning{Table: T("GSUB"), Issue: "unused lookup"}
	assert.Equal(t, "[WARNING] GSUB: unused lookup", w.String())
}

func TestErrorCollector(t *testing.T) {
	ec := &errorCollector{}
	assert.False(t, ec.hasCriticalErrors())
	ec.addError(T("post"), "Parse", errors.New("minor issue"), SeverityMinor, 100)
	assert.False(t, ec.hasCriticalErrors())
	ec.addError(T("head"), "Parse", errors.New("critical issue"), SeverityCritical, 200)
	assert.True(t, ec.hasCriticalErrors())
	ec.addWarning(T("kern"), "warning issue", 400)
	assert.Len(t, ec.errors, 2)
	assert.Len(t, ec.warnings, 1)
	//
	var nilCollector *errorCollector
	nilCollector.addError(T("head"), "Parse", errors.New("ignored"), SeverityMajor, 0)
	nilCollector.addWarning(T("head"), "ignored", 0)
}

func TestFontErrorMethods(t *testing.T) {
	font := &Font{
		parseErrors: []FontError{
			{Table: T("name"), Section: "Test1", Issue: "minor", Severity: SeverityMinor},
			{Table: T("maxp"), Section: "Test2", Issue: "critical", Severity: SeverityCritical},
			{Table: T("GSUB"), Section: "Test3", Issue: "major", Severity: SeverityMajor},
		},
		parseWarnings: []FontWarning{{Table: T("kern"), Issue: "warning"}},
	}
	assert.Len(t, font.Errors(), 3)
	assert.Len(t, font.Warnings(), 1)
	critical := font.CriticalErrors()
	require.Len(t, critical, 1)
	assert.Equal(t, SeverityCritical, critical[0].Severity)
	//
	empty := &Font{}
	assert.Empty(t, empty.Errors())
	assert.Empty(t, empty.Warnings())
	assert.Empty(t, empty.CriticalErrors())
}

func TestCheckedArithmetic(t *testing.T) {
	n, err := checkedMulInt(12, 4)
	require.NoError(t, err)
	assert.Equal(t, 48, n)
	_, err = checkedMulInt(math.MaxInt/2, 3)
	assert.ErrorIs(t, err, ErrStructure)
	_, err = checkedMulInt(-1, 3)
	assert.ErrorIs(t, err, ErrStructure)
	//
	u, err := checkedAddUint32(0xfffffff0, 0x0f)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xffffffff), u)
	_, err = checkedAddUint32(0xfffffff0, 0x10)
	assert.ErrorIs(t, err, ErrStructure)
}
