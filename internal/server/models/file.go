// Package models defines server-side data models persisted in the database.
package models

import "time"

// File describes the metadata of one stored file. The encrypted content
// itself lives in object storage under StorageKey.
//
// Content is immutable: a re-upload creates a new File. The storage key is
// assigned once at creation and never reused by another file.
type File struct {
	// ID is the opaque file identity.
	ID string
	// Name is the display name supplied at upload.
	Name string
	// ContentType is the declared MIME type.
	ContentType string
	// Size is the plaintext size in bytes, not the ciphertext size.
	Size int64
	// StorageKey is the object-storage key of the ciphertext blob.
	StorageKey string
	// OwnerID identifies the uploading user.
	OwnerID string

	CreatedAt time.Time
}
