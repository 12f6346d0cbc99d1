// Package archive persists completed backtest results to cold storage.
package archive

import "context"

// Storage is a flat byte store keyed by slash-separated paths.
type Storage interface {
	// Write stores data at the given path, overwriting any previous object
	Write(ctx context.Context, path string, data []byte) error

	// Read retrieves data from the given path
	Read(ctx context.Context, path string) ([]byte, error)

	// List returns all paths matching the prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if data exists at the given path
	Exists(ctx context.Context, path string) (bool, error)
}
