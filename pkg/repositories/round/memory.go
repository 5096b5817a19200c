package round

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/royalmock/casino/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	rounds map[string][]*entities.Round
	mu     sync.RWMutex
}

// NewMemoryRepository creates a new in-memory round repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rounds: make(map[string][]*entities.Round),
	}
}

// SaveRound records a settled round
func (r *MemoryRepository) SaveRound(ctx context.Context, round *entities.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CompletedAt.IsZero() {
		round.CompletedAt = time.Now()
	}

	roundCopy := *round
	r.rounds[round.UserID] = append(r.rounds[round.UserID], &roundCopy)
	return nil
}

// GetRecentRounds retrieves the most recent rounds for a user, newest first
func (r *MemoryRepository) GetRecentRounds(ctx context.Context, userID string, limit int) ([]*entities.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterRecent(r.rounds[userID], limit, func(*entities.Round) bool { return true }), nil
}

// GetRecentRoundsByGame retrieves the most recent rounds for one game
func (r *MemoryRepository) GetRecentRoundsByGame(ctx context.Context, userID string, game entities.GameName, limit int) ([]*entities.Round, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return filterRecent(r.rounds[userID], limit, func(rd *entities.Round) bool { return rd.Game == game }), nil
}

// Close releases any underlying resources
func (r *MemoryRepository) Close() error {
	return nil
}

func filterRecent(rounds []*entities.Round, limit int, keep func(*entities.Round) bool) []*entities.Round {
	result := make([]*entities.Round, 0, limit)
	for i := len(rounds) - 1; i >= 0 && len(result) < limit; i-- {
		if keep(rounds[i]) {
			roundCopy := *rounds[i]
			result = append(result, &roundCopy)
		}
	}
	return result
}
