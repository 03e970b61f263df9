package files

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	q := `(?s)^\s*INSERT\s+INTO\s+files\b.*RETURNING\s+id,\s*created_at\s*$`

	mock.ExpectQuery(q).
		WithArgs("report.txt", "text/plain", int64(5), "u1/key-1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("f1", created))

	file, err := repo.Create(context.Background(), &models.File{
		Name:        "report.txt",
		ContentType: "text/plain",
		Size:        5,
		StorageKey:  "u1/key-1",
		OwnerID:     "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.ID != "f1" || !file.CreatedAt.Equal(created) {
		t.Fatalf("generated columns not filled in: %+v", file)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+files`).
		WillReturnError(errors.New("broken pipe"))

	_, err := repo.Create(context.Background(), &models.File{Name: "x"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "content_type", "size", "storage_key", "owner_id", "created_at"}).
		AddRow("f1", "report.txt", "text/plain", int64(5), "u1/key-1", "u1", created)

	mock.ExpectQuery(`SELECT\s+id,\s*name,.*FROM\s+files\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("f1").
		WillReturnRows(rows)

	file, err := repo.GetByID(context.Background(), "f1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.StorageKey != "u1/key-1" || file.OwnerID != "u1" || file.Size != 5 {
		t.Fatalf("unexpected file: %+v", file)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*name,.*FROM\s+files`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+files\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "f1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+files`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestSelectByOwnerOrGrantee(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "content_type", "size", "storage_key", "owner_id", "created_at"}).
		AddRow("f2", "new.txt", "text/plain", int64(3), "u1/key-2", "u1", now).
		AddRow("f1", "old.txt", "text/plain", int64(5), "u2/key-1", "u2", now.Add(-time.Hour))

	mock.ExpectQuery(`(?s)SELECT\s+DISTINCT\s+f\.id,.*LEFT\s+JOIN\s+file_access\s+a\s+ON\s+a\.file_id\s*=\s*f\.id.*ORDER\s+BY\s+f\.created_at\s+DESC`).
		WithArgs("u1").
		WillReturnRows(rows)

	result, err := repo.SelectByOwnerOrGrantee(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("want 2 files, got %d", len(result))
	}
	if result[0].ID != "f2" || result[1].ID != "f1" {
		t.Fatalf("unexpected order: %s, %s", result[0].ID, result[1].ID)
	}
}
