package domain

import "time"

// Document is a remote file reference held transiently during one
// processing cycle. Bytes and PageCount are populated only after download.
type Document struct {
	ID           string
	Name         string
	SizeBytes    int64
	ModifiedTime time.Time

	// Populated after download, discarded after the cycle.
	Bytes     []byte
	PageCount int
}

// TokenUsage is the provider-neutral token accounting shape.
type TokenUsage struct {
	Prompt     int
	Completion int
}

// Total returns prompt plus completion tokens.
func (u TokenUsage) Total() int {
	return u.Prompt + u.Completion
}

// Add accumulates another usage record into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Prompt += other.Prompt
	u.Completion += other.Completion
}

// PreparedContent is the tagged representation of document content handed to
// a model client: either extracted text or raw PDF pages for vision upload.
type PreparedContent struct {
	Kind ContentKind

	// Text is set when Kind == ContentText.
	Text string

	// PDF and PageCount are set when Kind == ContentPDFPages. PageCount
	// never exceeds the configured extraction page limit.
	PDF       []byte
	PageCount int
}

// RenameOutcome records the terminal result for one processed document.
// It is created once and never mutated afterward.
type RenameOutcome struct {
	DocumentID    string
	OriginalName  string
	ProposedTitle string
	Status        OutcomeStatus
	Applied       bool
	Provider      string
	Model         string
	Usage         TokenUsage
	Error         string
	FinishedAt    time.Time
}

// RunSummary aggregates counters across one run.
type RunSummary struct {
	Listed   int
	Skipped  int
	Renamed  int
	DryRun   int
	Failed   int
	UsageSum TokenUsage
}

// Processed returns the number of documents that went past the filter.
func (s RunSummary) Processed() int {
	return s.Renamed + s.DryRun + s.Failed
}
