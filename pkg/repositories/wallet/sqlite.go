package wallet

import (
	"context"
	"database/sql"
	"errors"
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
	createWalletsTableSQL = `
	CREATE TABLE IF NOT EXISTS wallets (
		user_id TEXT PRIMARY KEY,
		balance INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createTransactionsTableSQL = `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		type TEXT NOT NULL,
		reference_id TEXT,
		description TEXT,
		timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		balance_after INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES wallets(user_id)
	)`

	createTransactionIndexesSQL = `
	CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp DESC)
	`
)

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	for _, schema := range []string{createWalletsTableSQL, createTransactionsTableSQL, createTransactionIndexesSQL} {
		if _, err := db.Exec(schema); err != nil {
			db.Close()
			return nil, fmt.Errorf("error creating tables: %w", err)
		}
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// GetWallet retrieves a wallet by user ID
func (r *SQLiteRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	wallet := &entities.Wallet{UserID: userID}

	err := r.db.QueryRowContext(ctx,
		"SELECT balance, updated_at FROM wallets WHERE user_id = ?",
		userID,
	).Scan(&wallet.Balance, &wallet.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying wallet: %w", err)
	}

	return wallet, nil
}

// SaveWallet creates or updates a wallet
func (r *SQLiteRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	wallet.LastUpdated = time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, balance, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
		wallet.UserID, wallet.Balance, wallet.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}
	return nil
}

// UpdateBalance atomically updates a wallet's balance
func (r *SQLiteRepository) UpdateBalance(ctx context.Context, userID string, amount int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE wallets SET balance = balance + ?, updated_at = ? WHERE user_id = ?",
		amount, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("error updating balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if rows == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// AddTransaction records a new transaction
func (r *SQLiteRepository) AddTransaction(ctx context.Context, transaction *entities.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, reference_id, description, timestamp, balance_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID, transaction.UserID, transaction.Amount, transaction.Type,
		transaction.ReferenceID, transaction.Description, transaction.Timestamp, transaction.BalanceAfter,
	)
	if err != nil {
		return fmt.Errorf("error inserting transaction: %w", err)
	}
	return nil
}

// GetTransactions retrieves recent transactions for a user
func (r *SQLiteRepository) GetTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, type, reference_id, description, timestamp, balance_after
		FROM transactions WHERE user_id = ?
		ORDER BY timestamp DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*entities.Transaction, 0, limit)
	for rows.Next() {
		tx := &entities.Transaction{}
		var refID, desc sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &refID, &desc, &tx.Timestamp, &tx.BalanceAfter); err != nil {
			return nil, fmt.Errorf("error scanning transaction: %w", err)
		}
		tx.ReferenceID = refID.String
		tx.Description = desc.String
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
