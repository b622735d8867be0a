package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repo defines persistence operations for interactions.
type Repo interface {
	Append(ctx context.Context, in Interaction) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Interaction, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// prepare validates an interaction and fills its ID and timestamp.
func prepare(in Interaction) (Interaction, error) {
	if strings.TrimSpace(in.OwnerID) == "" || in.Kind == "" {
		return Interaction{}, ErrInvalidInput
	}
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	return in, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
