package follow

import (
	"context"

	"yatube/internal/core/follow"

	"github.com/gofrs/uuid"
)

// FollowRepository is the storage port for follow edges.
type FollowRepository interface {
	// Create inserts the edge. A duplicate pair fails with apperr.ErrConflict.
	Create(ctx context.Context, follow *follow.Follow) (*follow.Follow, error)
	// Delete removes the edge and reports how many rows went away.
	Delete(ctx context.Context, userID, authorID uuid.UUID) (int64, error)
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
}
