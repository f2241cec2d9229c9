package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"scannamer/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document ID",
	"Original Name",
	"Proposed Title",
	"Status",
	"Applied",
	"Provider",
	"Model",
	"Prompt Tokens",
	"Completion Tokens",
	"Total Tokens",
	"Error",
	"Finished At",
}

// Writer wraps csv.Writer for exporting rename outcomes as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteOutcomes converts a batch of outcomes to CSV rows and writes them.
func (w *Writer) WriteOutcomes(outcomes []domain.RenameOutcome) error {
	for i := range outcomes {
		row := outcomeToRow(&outcomes[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func outcomeToRow(o *domain.RenameOutcome) []string {
	row := make([]string, len(columns))
	row[0] = o.DocumentID
	row[1] = o.OriginalName
	row[2] = o.ProposedTitle
	row[3] = string(o.Status)
	row[4] = formatBool(o.Applied)
	row[5] = o.Provider
	row[6] = o.Model
	row[7] = strconv.Itoa(o.Usage.Prompt)
	row[8] = strconv.Itoa(o.Usage.Completion)
	row[9] = strconv.Itoa(o.Usage.Total())
	row[10] = o.Error
	row[11] = formatTime(o.FinishedAt)
	return row
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
