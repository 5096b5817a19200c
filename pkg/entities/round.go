package entities

import "time"

// Outcome represents the result of a settled round from the player's side
type Outcome string

const (
	OutcomeWin      Outcome = "WIN"
	OutcomeLose     Outcome = "LOSE"
	OutcomePush     Outcome = "PUSH"
	OutcomeCashOut  Outcome = "CASH_OUT"
	OutcomeCanceled Outcome = "CANCELED"
)

// IsWin returns true if the player came out ahead
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeCashOut
}

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// GameName identifies one of the casino games
type GameName string

const (
	GameBlackjack  GameName = "BLACKJACK"
	GameBaccarat   GameName = "BACCARAT"
	GameRoulette   GameName = "ROULETTE"
	GameCrash      GameName = "CRASH"
	GameMines      GameName = "MINES"
	GameHoldem     GameName = "HOLDEM"
	GameVideoPoker GameName = "VIDEO_POKER"
	GameSlots      GameName = "SLOTS"
)

// Round records one settled cycle of a game: the total stake debited, the
// total payout credited back, and a short game-specific detail string.
// Rounds exist for history display and analytics, never for game logic.
type Round struct {
	ID          string
	UserID      string
	Game        GameName
	Stake       int64
	Payout      int64
	Outcome     Outcome
	Detail      string
	CompletedAt time.Time
}

// HistoryLimit bounds the trailing outcome log kept by game sessions.
const HistoryLimit = 15
