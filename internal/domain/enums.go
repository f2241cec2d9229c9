package domain

// ContentKind tags the representation chosen for a prepared document.
type ContentKind string

const (
	ContentText     ContentKind = "text"
	ContentPDFPages ContentKind = "pdf-pages"
)

// Stage is a step in the per-document state machine. Every document moves
// through these in order; skip/failure stages are terminal.
type Stage string

const (
	StageListed     Stage = "listed"
	StageFiltered   Stage = "filtered"
	StageDownloaded Stage = "downloaded"
	StagePrepared   Stage = "prepared"
	StageModeled    Stage = "modeled"
	StageNamed      Stage = "named"
	StageApplied    Stage = "applied"
)

// OutcomeStatus is the terminal status recorded for a document.
type OutcomeStatus string

const (
	OutcomeSkippedNotGeneric OutcomeStatus = "skipped_not_generic"
	OutcomeUnprocessable     OutcomeStatus = "unprocessable"
	OutcomeDownloadFailed    OutcomeStatus = "download_failed"
	OutcomeModelFailed       OutcomeStatus = "model_failed"
	OutcomeRenameFailed      OutcomeStatus = "rename_failed"
	OutcomeDryRun            OutcomeStatus = "dry_run"
	OutcomeRenamed           OutcomeStatus = "renamed"
)
