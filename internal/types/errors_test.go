package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameErrorFormatting(t *testing.T) {
	err := NewGameError(ErrInsufficientFunds, "stake exceeds balance")
	assert.Equal(t, "INSUFFICIENT_FUNDS: stake exceeds balance", err.Error())

	wrapped := WrapError(ErrDatabaseError, "saving wallet", errors.New("disk full"))
	assert.Equal(t, "DATABASE_ERROR: saving wallet (disk full)", wrapped.Error())
}

func TestIsGameError(t *testing.T) {
	err := NewGameError(ErrInvalidState, "hit while game over")

	assert.True(t, IsGameError(err, ErrInvalidState))
	assert.False(t, IsGameError(err, ErrInsufficientFunds))
	assert.False(t, IsGameError(nil, ErrInvalidState))
	assert.False(t, IsGameError(errors.New("plain"), ErrInvalidState))

	// Wrapped errors still match
	outer := fmt.Errorf("placing bet: %w", err)
	assert.True(t, IsGameError(outer, ErrInvalidState))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("row not found")
	err := WrapError(ErrWalletNotFound, "loading wallet", inner)
	assert.ErrorIs(t, err, inner)
}
