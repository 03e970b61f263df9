package grants

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, grant *models.AccessGrant) error
	Exists(ctx context.Context, fileID, granteeID string) (bool, error)
	DeleteByFileID(ctx context.Context, fileID string) error
}
