package migrate

import (
	"context"
	"fmt"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/tables"
)

// VersionStore reads and writes the schema version kept in plan_version.
type VersionStore struct {
	drv *sql.Driver
}

// NewVersionStore returns a VersionStore over drv.
func NewVersionStore(drv *sql.Driver) *VersionStore {
	return &VersionStore{drv: drv}
}

// Get returns the stored version, 0 when none was stored yet.
func (s *VersionStore) Get(ctx context.Context) (int, error) {
	versions, err := sql.QueryAll(ctx, s.drv, sql.Select(tables.Version, tables.VersionVersion).Statement(), sql.ScanInt64)
	if err != nil {
		return 0, fmt.Errorf("migrate: read schema version: %w", err)
	}
	var v int64
	for _, n := range versions {
		v = max(v, n)
	}
	return int(v), nil
}

// Set replaces the stored version.
func (s *VersionStore) Set(ctx context.Context, version int) error {
	err := s.drv.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Execute(ctx, sql.Delete(tables.Version).Statement()); err != nil {
			return err
		}
		_, err := tx.Execute(ctx, sql.Stmt(sql.Insert(tables.Version, tables.VersionVersion), version))
		return err
	})
	if err != nil {
		return fmt.Errorf("migrate: store schema version %d: %w", version, err)
	}
	return nil
}
