package grants

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// PostgresRepository implements grant storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, grant *models.AccessGrant) error {
	query := `
		INSERT INTO file_access (file_id, shared_by_id, shared_with_id, access_kind)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		grant.FileID, grant.SharedByID, grant.SharedWithID, grant.Kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Exists reports whether the grantee holds any grant on the file. Queried
// on every authorization decision; grant state is never cached.
func (r *PostgresRepository) Exists(ctx context.Context, fileID, granteeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM file_access
			WHERE file_id = $1 AND shared_with_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fileID, granteeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// DeleteByFileID removes every grant referencing the file. Idempotent:
// zero affected rows is not an error.
func (r *PostgresRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	query := `DELETE FROM file_access WHERE file_id = $1`

	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
