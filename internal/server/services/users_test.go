package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	filesrepo "github.com/dmitrijs2005/filekeeper/internal/server/repositories/files"
	grantsrepo "github.com/dmitrijs2005/filekeeper/internal/server/repositories/grants"
	usersrepo "github.com/dmitrijs2005/filekeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, u *fakeUsersRepo) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(db, &fakeUserRepoManager{u: u}, cfg)
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeUserRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeUserRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeUserRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeUserRepoManager) Files(db dbx.DBTX) filesrepo.Repository       { return nil }
func (m *fakeUserRepoManager) Grants(db dbx.DBTX) grantsrepo.Repository     { return nil }

// --- tests ---

func TestUserService_Register_OK(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{
		getErr:    common.ErrorNotFound,
		createOut: &models.User{ID: "u1", Email: "a@b.c", Name: "A"},
	}
	s := newUserService(t, db, repo)

	user, token, err := s.Register(context.Background(), "a@b.c", "A", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.NotEmpty(t, token)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	repo := &fakeUsersRepo{
		getOut: &models.User{ID: "u1", Email: "a@b.c"},
	}
	s := newUserService(t, db, repo)

	_, _, err := s.Register(context.Background(), "a@b.c", "A", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorAlreadyExists))
}

func TestUserService_Register_Validation(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, &fakeUsersRepo{getErr: common.ErrorNotFound})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "password123"},
		{name: "email without at sign", email: "not-an-email", password: "password123"},
		{name: "short password", email: "a@b.c", password: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(context.Background(), tt.email, "A", tt.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrorValidation))
		})
	}
}

func TestUserService_Login_OK(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUsersRepo{
		getOut: &models.User{ID: "u1", Email: "a@b.c", PasswordHash: hash},
	}
	s := newUserService(t, db, repo)

	token, err := s.Login(context.Background(), "a@b.c", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeUsersRepo{
		getOut: &models.User{ID: "u1", Email: "a@b.c", PasswordHash: hash},
	}
	s := newUserService(t, db, repo)

	_, err = s.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}

func TestUserService_Login_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, &fakeUsersRepo{getErr: common.ErrorNotFound})

	_, err := s.Login(context.Background(), "nobody@b.c", "password123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorUnauthorized))
}
