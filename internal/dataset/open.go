package dataset

import (
	"context"

	"churnboard/adapters/postgres"
	"churnboard/ports"
)

// OpenSource picks a source implementation for location: postgres:// URLs
// go to PostgreSQL, anything else is a file path.
func OpenSource(ctx context.Context, location string) (ports.CustomerSource, error) {
	if postgres.IsLocation(location) {
		return postgres.Open(ctx, location)
	}
	return NewFileSource(location), nil
}
