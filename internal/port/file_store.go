package port

import (
	"context"

	"scannamer/internal/domain"
)

// DocumentPage is one page of a file-store listing. NextToken is empty on
// the last page.
type DocumentPage struct {
	Documents []domain.Document
	NextToken string
}

// FileStore abstracts the cloud store holding the scanned documents.
type FileStore interface {
	// List returns one page of PDF documents under prefix. Pass the
	// NextToken of the previous page to continue; empty token starts over.
	List(ctx context.Context, prefix, pageToken string) (*DocumentPage, error)
	// Download fetches the full byte content of a document.
	Download(ctx context.Context, id string) ([]byte, error)
	// Rename changes the document's display name in place.
	Rename(ctx context.Context, id, newName string) error
}
