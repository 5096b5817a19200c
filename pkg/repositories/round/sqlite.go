package round

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/royalmock/casino/pkg/entities"
)

// SQLite table schemas
const (
	createRoundsTableSQL = `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		game TEXT NOT NULL,
		stake INTEGER NOT NULL,
		payout INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		completed_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_rounds_user ON rounds(user_id, completed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(user_id, game, completed_at DESC)`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite round repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(createRoundsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating rounds table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRound records a settled round
func (r *SQLiteRepository) SaveRound(ctx context.Context, round *entities.Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}
	if round.CompletedAt.IsZero() {
		round.CompletedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rounds (id, user_id, game, stake, payout, outcome, detail, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		round.ID, round.UserID, round.Game, round.Stake, round.Payout,
		round.Outcome, round.Detail, round.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting round: %w", err)
	}
	return nil
}

// GetRecentRounds retrieves the most recent rounds for a user, newest first
func (r *SQLiteRepository) GetRecentRounds(ctx context.Context, userID string, limit int) ([]*entities.Round, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, game, stake, payout, outcome, detail, completed_at
		FROM rounds WHERE user_id = ?
		ORDER BY completed_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	return scanRounds(rows, limit)
}

// GetRecentRoundsByGame retrieves the most recent rounds for one game
func (r *SQLiteRepository) GetRecentRoundsByGame(ctx context.Context, userID string, game entities.GameName, limit int) ([]*entities.Round, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, game, stake, payout, outcome, detail, completed_at
		FROM rounds WHERE user_id = ? AND game = ?
		ORDER BY completed_at DESC LIMIT ?`,
		userID, game, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	return scanRounds(rows, limit)
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRounds(rows *sql.Rows, limit int) ([]*entities.Round, error) {
	rounds := make([]*entities.Round, 0, limit)
	for rows.Next() {
		rd := &entities.Round{}
		var detail sql.NullString
		if err := rows.Scan(&rd.ID, &rd.UserID, &rd.Game, &rd.Stake, &rd.Payout, &rd.Outcome, &detail, &rd.CompletedAt); err != nil {
			return nil, fmt.Errorf("error scanning round: %w", err)
		}
		rd.Detail = detail.String
		rounds = append(rounds, rd)
	}
	return rounds, rows.Err()
}
