package postgres

import (
	"context"
	_ "embed"

	"companyintel/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// EnsureSchema applies the embedded DDL. All statements are IF NOT EXISTS
// so calling it on every startup is safe.
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "apply schema")
	}
	return nil
}
