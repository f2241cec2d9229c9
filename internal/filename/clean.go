package filename

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// Extension appended to every cleaned name.
	pdfExt = ".pdf"

	// minMaxLength keeps Clean total even under a degenerate length limit.
	minMaxLength = len("unnamed_0") + len(pdfExt)
)

// illegalChars matches characters not allowed in filenames on common
// filesystems, plus control characters.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)

// collapseRuns matches runs of whitespace and underscores.
var collapseRuns = regexp.MustCompile(`[_\s]+`)

// Clean turns raw model output into a filesystem-safe, length-bounded name
// ending in ".pdf". It is total and idempotent: it never fails, never
// returns an empty string, and cleaning an already-clean name is a no-op.
// fallback identifies the document (id or timestamp) and is used to build a
// deterministic substitute name when raw cleans down to nothing.
func Clean(raw, fallback string, maxLen int) string {
	if maxLen < minMaxLength {
		maxLen = minMaxLength
	}

	name := firstLine(raw)
	name = strings.TrimSpace(name)
	name = strings.Trim(name, `"'`+"`")
	name = strings.TrimSpace(name)

	if strings.HasSuffix(strings.ToLower(name), pdfExt) {
		name = name[:len(name)-len(pdfExt)]
	}

	name = illegalChars.ReplaceAllString(name, "_")
	name = collapseRuns.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_.")

	if name == "" {
		name = "unnamed_" + sanitizeFallback(fallback)
	}

	name = truncate(name, maxLen-len(pdfExt))
	// Truncation can expose a trailing separator.
	name = strings.Trim(name, "_.")
	if name == "" {
		name = "unnamed"
	}

	return name + pdfExt
}

// firstLine returns the first non-blank line of s, so that model commentary
// after the proposed title is dropped.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func sanitizeFallback(fallback string) string {
	fallback = illegalChars.ReplaceAllString(fallback, "_")
	fallback = collapseRuns.ReplaceAllString(fallback, "_")
	fallback = strings.Trim(fallback, "_.")
	if fallback == "" {
		return "0"
	}
	return fallback
}

// truncate shortens s to at most max bytes without splitting a UTF-8
// sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
