package filename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testMaxLen = 100

func TestClean_StripsQuotesAndWhitespace(t *testing.T) {
	got := Clean(`  "Invoice - Acme Corp - March 2024"  `, "doc1", testMaxLen)
	assert.Equal(t, "Invoice_-_Acme_Corp_-_March_2024.pdf", got)
}

func TestClean_TakesFirstLineOnly(t *testing.T) {
	raw := "Tax Statement 2023\n\nI chose this name because the document appears to be a tax statement."
	got := Clean(raw, "doc1", testMaxLen)
	assert.Equal(t, "Tax_Statement_2023.pdf", got)
}

func TestClean_SkipsLeadingBlankLines(t *testing.T) {
	got := Clean("\n\n  Lease Agreement  \n", "doc1", testMaxLen)
	assert.Equal(t, "Lease_Agreement.pdf", got)
}

func TestClean_RemovesIllegalCharacters(t *testing.T) {
	got := Clean(`Report<2024>: Q1/Q2 | "final"?*`, "doc1", testMaxLen)
	assert.NotContains(t, got, "/")
	assert.NotContains(t, got, ":")
	assert.NotContains(t, got, "|")
	assert.NotContains(t, got, "?")
	assert.NotContains(t, got, "*")
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
	assert.NotContains(t, got, `"`)
}

func TestClean_CollapsesRuns(t *testing.T) {
	got := Clean("Annual   Report___2024", "doc1", testMaxLen)
	assert.Equal(t, "Annual_Report_2024.pdf", got)
}

func TestClean_PreservesExtensionOnTruncate(t *testing.T) {
	long := strings.Repeat("a", 500)
	got := Clean(long, "doc1", testMaxLen)

	assert.LessOrEqual(t, len(got), testMaxLen)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
}

func TestClean_EmptyInputUsesFallback(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n", `""`, "___", "???"} {
		got := Clean(raw, "1f2e3d", testMaxLen)
		assert.Equal(t, "unnamed_1f2e3d.pdf", got, "raw=%q", raw)
	}
}

func TestClean_NeverEmpty(t *testing.T) {
	inputs := []string{"", "*", ".", "..", "_", `"'`, "\x00\x01", "a"}
	for _, raw := range inputs {
		got := Clean(raw, "", testMaxLen)
		assert.NotEmpty(t, got, "raw=%q", raw)
		assert.True(t, strings.HasSuffix(got, ".pdf"))
	}
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		`"Invoice - Acme Corp - March 2024.pdf"`,
		"Tax Statement 2023\nsecond line",
		"a/b\\c:d",
		"",
		strings.Repeat("word ", 80),
		"Übersicht Straßenplan 2024",
	}
	for _, raw := range inputs {
		once := Clean(raw, "doc1", testMaxLen)
		twice := Clean(once, "doc1", testMaxLen)
		assert.Equal(t, once, twice, "raw=%q", raw)
	}
}

func TestClean_LengthBound(t *testing.T) {
	inputs := []string{
		strings.Repeat("x", 1000),
		strings.Repeat("ü", 400),
		"short",
	}
	for _, raw := range inputs {
		got := Clean(raw, "doc1", testMaxLen)
		assert.LessOrEqual(t, len(got), testMaxLen, "raw len=%d", len(raw))
	}
}

func TestClean_StripsExistingPDFExtension(t *testing.T) {
	assert.Equal(t, "Scan_Result.pdf", Clean("Scan Result.PDF", "doc1", testMaxLen))
	assert.Equal(t, "Scan_Result.pdf", Clean("Scan Result.pdf", "doc1", testMaxLen))
}

func TestClean_MultibyteTruncationIsUTF8Safe(t *testing.T) {
	got := Clean(strings.Repeat("ü", 300), "doc1", 20)
	assert.LessOrEqual(t, len(got), 20)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	// No broken rune at the truncation point.
	assert.True(t, strings.HasSuffix(strings.ToValidUTF8(got, ""), ".pdf"))
	assert.Equal(t, got, strings.ToValidUTF8(got, ""))
}
