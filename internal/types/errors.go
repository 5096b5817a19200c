package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Wallet errors
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrWalletNotFound    ErrorCode = "WALLET_NOT_FOUND"

	// Game state errors
	ErrInvalidState  ErrorCode = "INVALID_STATE"
	ErrGameNotFound  ErrorCode = "GAME_NOT_FOUND"
	ErrEmptyDeck     ErrorCode = "EMPTY_DECK"
	ErrInvalidBet    ErrorCode = "INVALID_BET"
	ErrInvalidAction ErrorCode = "INVALID_ACTION"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError represents a game-related error
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error is a GameError and has a specific code
func IsGameError(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var gameErr *GameError
	if errors.As(err, &gameErr) {
		return gameErr.Code == code
	}
	return false
}

// As is a convenience wrapper around errors.As
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
