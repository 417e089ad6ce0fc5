package snapshot

import (
	"context"
	"fmt"
)

// Options selects and configures a driver.
type Options struct {
	Driver Driver
	// Path is the filesystem root (fs) or database file (sqlite).
	Path string
	// DatabaseURL is the connection string for the postgres driver.
	DatabaseURL string
}

// Open constructs the Store named by opts. An empty driver defaults to fs.
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(opts.Path)
	case DriverSQLite:
		return NewSQLite(ctx, opts.Path)
	case DriverPostgres:
		return NewPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", driver)
	}
}
