package mock

import (
	"context"

	"github.com/alqudimi/deepdoc"
)

var _ deepdoc.Scanner = (*Scanner)(nil)

// Scanner is a mock implementation of deepdoc.Scanner.
type Scanner struct {
	ScanFn func(ctx context.Context, root string) (*deepdoc.ScanResult, error)
}

func (s *Scanner) Scan(ctx context.Context, root string) (*deepdoc.ScanResult, error) {
	return s.ScanFn(ctx, root)
}
