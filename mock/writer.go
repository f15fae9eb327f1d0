package mock

import (
	"context"

	"github.com/alqudimi/deepdoc"
)

var _ deepdoc.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of deepdoc.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentsFn func(ctx context.Context, set *deepdoc.DocumentSet) (*deepdoc.WriteResult, error)
}

func (w *DocumentWriter) WriteDocuments(ctx context.Context, set *deepdoc.DocumentSet) (*deepdoc.WriteResult, error) {
	return w.WriteDocumentsFn(ctx, set)
}
