package baccarat

import (
	"strconv"

	"github.com/royalmock/casino/pkg/entities"
)

// CardValue maps a rank to its baccarat pip value: ace is one, tens and
// faces are zero, everything else is face value.
func CardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 1
	case entities.Ten, entities.Jack, entities.Queen, entities.King:
		return 0
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// Score returns the hand's pip sum mod 10
func Score(cards []*entities.Card) int {
	sum := 0
	for _, card := range cards {
		sum += CardValue(card)
	}
	return sum % 10
}

// IsNatural reports an initial two-card hand scoring 8 or 9, which ends
// the round without further draws
func IsNatural(cards []*entities.Card) bool {
	return len(cards) == 2 && Score(cards) >= 8
}

// PlayerDraws reports whether the player takes a third card
func PlayerDraws(playerScore int) bool {
	return playerScore <= 5
}

// BankerDraws applies the standard third-card table. When the player
// stood, the banker simply draws on 5 or less; when the player drew, the
// decision keys on the banker's score and the player's third-card value.
func BankerDraws(bankerScore int, playerDrew bool, playerThirdValue int) bool {
	if !playerDrew {
		return bankerScore <= 5
	}

	switch {
	case bankerScore <= 2:
		return true
	case bankerScore == 3:
		return playerThirdValue != 8
	case bankerScore == 4:
		return playerThirdValue >= 2 && playerThirdValue <= 7
	case bankerScore == 5:
		return playerThirdValue >= 4 && playerThirdValue <= 7
	case bankerScore == 6:
		return playerThirdValue >= 6 && playerThirdValue <= 7
	default:
		return false
	}
}
