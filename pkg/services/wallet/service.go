package wallet

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/royalmock/casino/pkg/entities"
	walletRepo "github.com/royalmock/casino/pkg/repositories/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
)

// DefaultStartingBalance seeds newly created wallets
const DefaultStartingBalance = 1000

// Service handles wallet business logic
type Service struct {
	repo            walletRepo.Repository
	startingBalance int64
}

// NewService creates a new wallet service
func NewService(repo walletRepo.Repository) *Service {
	return NewServiceWithStartingBalance(repo, DefaultStartingBalance)
}

// NewServiceWithStartingBalance creates a wallet service whose new wallets
// open with the given balance
func NewServiceWithStartingBalance(repo walletRepo.Repository, startingBalance int64) *Service {
	return &Service{
		repo:            repo,
		startingBalance: startingBalance,
	}
}

// GetOrCreateWallet retrieves a wallet or creates a new one if it doesn't exist
func (s *Service) GetOrCreateWallet(ctx context.Context, userID string) (*entities.Wallet, bool, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	if err == nil {
		return wallet, false, nil // Wallet exists
	}

	if !errors.Is(err, walletRepo.ErrWalletNotFound) {
		return nil, false, err // Unexpected error
	}

	newWallet := &entities.Wallet{
		UserID:      userID,
		Balance:     s.startingBalance,
		LastUpdated: time.Now(),
	}

	if err := s.repo.SaveWallet(ctx, newWallet); err != nil {
		return nil, false, err
	}

	log.Printf("[WALLET] Created wallet for user %s with starting balance $%d", userID, s.startingBalance)
	return newWallet, true, nil
}

// GetBalance returns the current balance for a user
func (s *Service) GetBalance(ctx context.Context, userID string) (int64, error) {
	wallet, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

// AddFunds credits a user's wallet and records the transaction
func (s *Service) AddFunds(ctx context.Context, userID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	wallet, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return err
	}

	wallet.Balance += amount
	wallet.LastUpdated = time.Now()

	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	log.Printf("[WALLET] Credited $%d to user %s (%s), balance now $%d", amount, userID, description, wallet.Balance)

	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       amount,
		Type:         entities.TransactionTypePayout,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	}

	return s.repo.AddTransaction(ctx, transaction)
}

// RemoveFunds debits a user's wallet if sufficient funds exist. The balance
// check runs against the freshly loaded wallet so a stake can never push
// the balance negative.
func (s *Service) RemoveFunds(ctx context.Context, userID string, amount int64, description string) error {
	if amount <= 0 {
		return ErrNegativeAmount
	}

	wallet, _, err := s.GetOrCreateWallet(ctx, userID)
	if err != nil {
		return err
	}

	if wallet.Balance < amount {
		return ErrInsufficientFunds
	}

	wallet.Balance -= amount
	wallet.LastUpdated = time.Now()

	if err := s.repo.SaveWallet(ctx, wallet); err != nil {
		return err
	}

	log.Printf("[WALLET] Debited $%d from user %s (%s), balance now $%d", amount, userID, description, wallet.Balance)

	transaction := &entities.Transaction{
		ID:           uuid.New().String(),
		UserID:       userID,
		Amount:       -amount, // Negative amount for removal
		Type:         entities.TransactionTypeBet,
		Description:  description,
		Timestamp:    time.Now(),
		BalanceAfter: wallet.Balance,
	}

	return s.repo.AddTransaction(ctx, transaction)
}

// GetRecentTransactions retrieves recent transactions for a user
func (s *Service) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]*entities.Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit)
}
