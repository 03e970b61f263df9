// Package services implements the application logic of the server: user
// accounts and the encrypted file lifecycle. Services sit between the HTTP
// layer and the repositories, own the transaction boundaries, and are the
// only place where the crypto engine and the object store meet.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/cryptox"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/access"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
)

// DownloadResult carries a decrypted file back to the transport layer.
type DownloadResult struct {
	Name        string
	ContentType string
	Data        []byte
}

// FileService implements upload, download, sharing, listing and deletion of
// encrypted files.
//
// Contents are encrypted before they reach the object store and decrypted
// only on the way out; the store never sees plaintext. Every operation on an
// existing file authorizes the actor first.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	crypto      *cryptox.Engine
	authorizer  *access.Authorizer
	presignTTL  time.Duration
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objectstore.Store,
	crypto *cryptox.Engine, authorizer *access.Authorizer, presignTTL time.Duration) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		crypto:      crypto,
		authorizer:  authorizer,
		presignTTL:  presignTTL,
	}
}

// getRandomStorageKey returns a fresh object key namespaced by owner. Keys
// are assigned once per file and never reused.
func getRandomStorageKey(ownerID string) string {
	return fmt.Sprintf("%s/%v", ownerID, uuid.New())
}

// Upload encrypts data and stores it as a new file owned by ownerID.
//
// The blob is written before the metadata row: if the store write fails, no
// row is created and the upload reports the store error. If the row insert
// fails afterwards, the orphaned blob is removed best-effort.
func (s *FileService) Upload(ctx context.Context, ownerID, name, contentType string, data []byte) (*models.File, error) {

	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file content is empty", common.ErrorValidation)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ciphertext, err := s.crypto.Encrypt(data)
	if err != nil {
		return nil, err
	}

	key := getRandomStorageKey(ownerID)

	if err := s.store.Put(ctx, key, ciphertext, contentType); err != nil {
		return nil, err
	}

	file := &models.File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		StorageKey:  key,
		OwnerID:     ownerID,
	}

	repo := s.repomanager.Files(s.db)

	file, err = repo.Create(ctx, file)
	if err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, fmt.Errorf("error creating file: %w", err)
	}

	return file, nil
}

// Download returns the decrypted content of a file the actor may read.
//
// A missing file and a file the actor has no access to are both reported as
// not found, so the response does not reveal whether the file exists.
func (s *FileService) Download(ctx context.Context, actorID, fileID string) (*DownloadResult, error) {

	file, err := s.authorizeRead(ctx, actorID, fileID)
	if err != nil {
		return nil, err
	}

	ciphertext, err := s.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.crypto.Decrypt(ciphertext)
	if err != nil {
		return nil, err
	}

	return &DownloadResult{
		Name:        file.Name,
		ContentType: file.ContentType,
		Data:        plaintext,
	}, nil
}

// PresignViewURL returns a short-lived URL for a direct read of the stored
// (encrypted) object, after the same access check as Download.
func (s *FileService) PresignViewURL(ctx context.Context, actorID, fileID string) (string, error) {

	file, err := s.authorizeRead(ctx, actorID, fileID)
	if err != nil {
		return "", err
	}

	return s.store.PresignGetURL(ctx, file.StorageKey, s.presignTTL)
}

// authorizeRead loads the file and checks read access, collapsing a denied
// read into a not-found result.
func (s *FileService) authorizeRead(ctx context.Context, actorID, fileID string) (*models.File, error) {
	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.Authorize(ctx, actorID, file, access.OpRead); err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			return nil, fmt.Errorf("%w: file not found", common.ErrorNotFound)
		}
		return nil, err
	}

	return file, nil
}

// Delete removes a file the actor owns: its grants, its blob, and its
// metadata row.
//
// Unlike Download, Delete distinguishes a missing file (not found) from a
// file owned by someone else (forbidden). The grant and metadata deletes
// run in one transaction; the blob delete is idempotent and sits between
// them, so a retry after a store failure converges.
func (s *FileService) Delete(ctx context.Context, actorID, fileID string) error {

	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.authorizer.Authorize(ctx, actorID, file, access.OpDelete); err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {

		if err := s.repomanager.Grants(tx).DeleteByFileID(ctx, file.ID); err != nil {
			return err
		}

		if err := s.store.Delete(ctx, file.StorageKey); err != nil {
			return err
		}

		return s.repomanager.Files(tx).Delete(ctx, file.ID)
	})

	if err != nil {
		return fmt.Errorf("error deleting file: %w", err)
	}

	return nil
}

// Share grants read access on a file the actor owns to the user identified
// by granteeEmail. Sharing is idempotent: granting the same access twice
// leaves a single grant.
func (s *FileService) Share(ctx context.Context, actorID, fileID, granteeEmail string, kind models.AccessKind) error {

	if kind == "" {
		kind = models.AccessRead
	}
	if kind != models.AccessRead {
		return fmt.Errorf("%w: unsupported access kind %q", common.ErrorValidation, kind)
	}

	fileRepo := s.repomanager.Files(s.db)

	file, err := fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	if err := s.authorizer.Authorize(ctx, actorID, file, access.OpShare); err != nil {
		return err
	}

	grantee, err := s.repomanager.Users(s.db).GetByEmail(ctx, granteeEmail)
	if err != nil {
		return err
	}

	if grantee.ID == file.OwnerID {
		return fmt.Errorf("%w: cannot share a file with its owner", common.ErrorValidation)
	}

	grantRepo := s.repomanager.Grants(s.db)

	exists, err := grantRepo.Exists(ctx, file.ID, grantee.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return grantRepo.Create(ctx, &models.AccessGrant{
		FileID:       file.ID,
		SharedByID:   actorID,
		SharedWithID: grantee.ID,
		Kind:         kind,
	})
}

// List returns the files the user owns plus the files shared with them,
// newest first.
func (s *FileService) List(ctx context.Context, userID string) ([]*models.File, error) {
	return s.repomanager.Files(s.db).SelectByOwnerOrGrantee(ctx, userID)
}
