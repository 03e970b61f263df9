package models

import "time"

// AccessKind enumerates the rights a grant can carry. Only read sharing is
// supported; the type exists so the model can grow without a schema change.
type AccessKind string

const AccessRead AccessKind = "READ"

// AccessGrant authorizes a non-owner to read a specific file. Grants are
// created only through the share operation and die with their file; they
// are never mutated. Duplicate grants carry no rights beyond READ.
type AccessGrant struct {
	FileID string
	// SharedByID is the granting user; always the file owner at grant time.
	SharedByID string
	// SharedWithID is the grantee.
	SharedWithID string
	Kind         AccessKind

	CreatedAt time.Time
}
