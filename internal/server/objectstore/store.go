// Package objectstore abstracts the durable blob store holding encrypted
// file contents. Implementations address blobs by opaque keys namespaced
// under a fixed prefix chosen by the service, never by user-controlled
// paths.
package objectstore

import (
	"context"
	"time"
)

// Store is the blob-store contract consumed by the file service.
//
// Stores know nothing about encryption or access rules: the service
// encrypts before Put and authorizes before Get, Delete, or issuing a
// presigned URL.
type Store interface {
	// Put durably stores data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the stored bytes. A missing key fails with the NotFound
	// sentinel; an I/O failure fails with the retryable store sentinel and
	// is never reported as NotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object. Idempotent: deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// PresignGetURL returns a temporary URL for a direct client read of
	// the (still encrypted) object. The caller must have authorized the
	// request before issuing the URL; the store is not the trust boundary.
	PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
