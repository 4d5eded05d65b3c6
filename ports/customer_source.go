package ports

import (
	"context"

	"churnboard/domain/customer"
)

// CustomerSource reads the customer dataset from wherever it lives.
type CustomerSource interface {
	// Location identifies the source, e.g. a file path or a database URL.
	Location() string
	// Fingerprint changes whenever the underlying data changes. It must be
	// much cheaper than ReadTable.
	Fingerprint(ctx context.Context) (string, error)
	// ReadTable reads and parses the full dataset.
	ReadTable(ctx context.Context) (*customer.Table, error)
}

// SourceOpener resolves a location string to a CustomerSource.
type SourceOpener func(ctx context.Context, location string) (CustomerSource, error)
