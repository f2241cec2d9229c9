package csvexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scannamer/internal/csvexport"
	"scannamer/internal/domain"
)

func TestWriter_HeaderAndRows(t *testing.T) {
	finished := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	outcomes := []domain.RenameOutcome{
		{
			DocumentID:    "inbox/raven_scan_0001.pdf",
			OriginalName:  "raven_scan_0001.pdf",
			ProposedTitle: "Invoice_-_Acme_Corp.pdf",
			Status:        domain.OutcomeRenamed,
			Applied:       true,
			Provider:      "claude",
			Model:         "claude-sonnet-4-20250514",
			Usage:         domain.TokenUsage{Prompt: 100, Completion: 10},
			FinishedAt:    finished,
		},
		{
			DocumentID:   "inbox/raven_scan_0002.pdf",
			OriginalName: "raven_scan_0002.pdf",
			Status:       domain.OutcomeModelFailed,
			Error:        "giving up after 3 attempts",
			FinishedAt:   finished,
		},
	}

	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteOutcomes(outcomes))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, "Document ID", header[0])
	assert.Equal(t, "Status", header[3])
	assert.Equal(t, "Total Tokens", header[9])

	renamed := records[1]
	assert.Equal(t, "inbox/raven_scan_0001.pdf", renamed[0])
	assert.Equal(t, "Invoice_-_Acme_Corp.pdf", renamed[2])
	assert.Equal(t, "renamed", renamed[3])
	assert.Equal(t, "Yes", renamed[4])
	assert.Equal(t, "110", renamed[9])
	assert.Equal(t, "2026-08-30T12:00:00Z", renamed[11])

	failed := records[2]
	assert.Equal(t, "model_failed", failed[3])
	assert.Equal(t, "No", failed[4])
	assert.Equal(t, "giving up after 3 attempts", failed[10])
}

func TestWriter_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	w := csvexport.NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteOutcomes(nil))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
