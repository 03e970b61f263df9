// Package access holds the single authorization decision point for file
// operations. Every operation consults it before the object store or the
// crypto engine is touched, and every decision is evaluated against the
// current grant state: nothing is cached across requests.
package access

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/grants"
)

// Operation names the action an actor requests on a file.
type Operation string

const (
	OpRead   Operation = "read"
	OpWrite  Operation = "write"
	OpDelete Operation = "delete"
	OpShare  Operation = "share"
)

// Authorizer decides whether an actor may perform an operation on a file.
//
// The actor identity must already be authenticated by the transport layer;
// the authorizer never validates identity itself.
type Authorizer struct {
	grants grants.Repository
}

func NewAuthorizer(g grants.Repository) *Authorizer {
	return &Authorizer{grants: g}
}

// Authorize returns nil when the operation is allowed, ErrorForbidden with
// a reason when it is denied, or a store error when grant state cannot be
// read.
//
// Rules: delete, share and write require ownership. Read is allowed for
// the owner or any holder of a grant on the file.
func (a *Authorizer) Authorize(ctx context.Context, actorID string, file *models.File, op Operation) error {
	switch op {
	case OpDelete, OpShare, OpWrite:
		if actorID != file.OwnerID {
			return fmt.Errorf("%w: not owner", common.ErrorForbidden)
		}
		return nil

	case OpRead:
		if actorID == file.OwnerID {
			return nil
		}
		granted, err := a.grants.Exists(ctx, file.ID, actorID)
		if err != nil {
			return err
		}
		if !granted {
			return fmt.Errorf("%w: no access", common.ErrorForbidden)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown operation %q", common.ErrorValidation, op)
	}
}
