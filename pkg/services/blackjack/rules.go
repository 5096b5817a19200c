package blackjack

import (
	"strconv"

	"github.com/royalmock/casino/pkg/entities"
)

// DealerStandScore is the fixed threshold the dealer draws up to. The
// dealer hits on 16 and below, stands on 17 and above, with no extra
// soft-17 rule.
const DealerStandScore = 17

func GetCardValue(card *entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

func IsAce(card *entities.Card) bool {
	return card.Rank == entities.Ace
}

// GetBestScore totals a hand counting each ace as 11, demoting aces to 1
// one at a time while the total exceeds 21.
func GetBestScore(cards []*entities.Card) int {
	score := 0
	aces := 0

	for _, card := range cards {
		score += GetCardValue(card)
		if IsAce(card) {
			aces++
		}
	}

	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}

	return score
}

// IsBlackjack reports a natural: exactly two cards totaling 21
func IsBlackjack(cards []*entities.Card) bool {
	return len(cards) == 2 && GetBestScore(cards) == 21
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []*entities.Card) bool {
	return GetBestScore(cards) > 21
}

// CompareHands compares two hands by final score and returns:
// 1 if hand1 wins
// -1 if hand2 wins
// 0 if push (tie)
// Naturals are settled before any showdown, so a two-card 21 here is
// just a 21 and ties any other 21.
func CompareHands(hand1, hand2 []*entities.Card) int {
	bust1 := IsBust(hand1)
	bust2 := IsBust(hand2)
	if bust1 && !bust2 {
		return -1
	} else if !bust1 && bust2 {
		return 1
	} else if bust1 && bust2 {
		return 0
	}

	score1 := GetBestScore(hand1)
	score2 := GetBestScore(hand2)
	if score1 > score2 {
		return 1
	} else if score1 < score2 {
		return -1
	}
	return 0
}

// BlackjackPayout is the total return on a natural: stake plus winnings
// at 3:2, i.e. 2.5x the stake
func BlackjackPayout(stake int64) int64 {
	return stake + stake*3/2
}
