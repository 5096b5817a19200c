package round

import (
	"context"

	"github.com/royalmock/casino/pkg/entities"
)

// Repository defines the interface for round history storage. Rounds feed
// history rails and analytics; game logic never reads them back.
type Repository interface {
	// SaveRound records a settled round
	SaveRound(ctx context.Context, round *entities.Round) error

	// GetRecentRounds retrieves the most recent rounds for a user, newest first
	GetRecentRounds(ctx context.Context, userID string, limit int) ([]*entities.Round, error)

	// GetRecentRoundsByGame retrieves the most recent rounds for one game
	GetRecentRoundsByGame(ctx context.Context, userID string, game entities.GameName, limit int) ([]*entities.Round, error)

	// Close releases any underlying resources
	Close() error
}
