package poker

import (
	"sort"
	"strconv"

	"github.com/royalmock/casino/pkg/entities"
)

// Category classifies a five-card poker hand. Higher is stronger.
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[Category]string{
	HighCard:      "HIGH CARD",
	Pair:          "PAIR",
	TwoPair:       "TWO PAIR",
	ThreeOfAKind:  "THREE OF A KIND",
	Straight:      "STRAIGHT",
	Flush:         "FLUSH",
	FullHouse:     "FULL HOUSE",
	FourOfAKind:   "FOUR OF A KIND",
	StraightFlush: "STRAIGHT FLUSH",
	RoyalFlush:    "ROYAL FLUSH",
}

// String returns the display name of the category
func (c Category) String() string {
	return categoryNames[c]
}

// RankValue maps a rank to its ace-high poker value (2..14)
func RankValue(rank entities.Rank) int {
	switch rank {
	case entities.Ace:
		return 14
	case entities.King:
		return 13
	case entities.Queen:
		return 12
	case entities.Jack:
		return 11
	default:
		v, _ := strconv.Atoi(string(rank))
		return v
	}
}

// HandRank is a comparable hand classification. TieBreak is the rank of the
// hand's defining group (the pair, trips, or quads rank; the high card of a
// straight, with the wheel counting as 5-high; the top card otherwise).
type HandRank struct {
	Category Category
	TieBreak int
}

// Score collapses the rank into a single ordering scalar
func (h HandRank) Score() int {
	return int(h.Category)*100 + h.TieBreak
}

// Compare returns 1 if a beats b, -1 if b beats a and 0 on a push
func Compare(a, b HandRank) int {
	if a.Score() > b.Score() {
		return 1
	}
	if a.Score() < b.Score() {
		return -1
	}
	return 0
}

// Evaluate5 classifies exactly five cards
func Evaluate5(cards []*entities.Card) HandRank {
	values := make([]int, len(cards))
	for i, c := range cards {
		values[i] = RankValue(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straight, straightHigh := straightHigh5(values)

	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	var quadRank, tripRank int
	var pairRanks []int
	for v, n := range counts {
		switch n {
		case 4:
			quadRank = v
		case 3:
			tripRank = v
		case 2:
			pairRanks = append(pairRanks, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(pairRanks)))

	switch {
	case flush && straight && straightHigh == 14:
		return HandRank{RoyalFlush, straightHigh}
	case flush && straight:
		return HandRank{StraightFlush, straightHigh}
	case quadRank != 0:
		return HandRank{FourOfAKind, quadRank}
	case tripRank != 0 && len(pairRanks) > 0:
		return HandRank{FullHouse, tripRank}
	case flush:
		return HandRank{Flush, values[0]}
	case straight:
		return HandRank{Straight, straightHigh}
	case tripRank != 0:
		return HandRank{ThreeOfAKind, tripRank}
	case len(pairRanks) >= 2:
		return HandRank{TwoPair, pairRanks[0]}
	case len(pairRanks) == 1:
		return HandRank{Pair, pairRanks[0]}
	default:
		return HandRank{HighCard, values[0]}
	}
}

// EvaluateBest classifies the strongest five-card hand available in five to
// seven cards, for seven-card play (hole cards plus community cards).
func EvaluateBest(cards []*entities.Card) HandRank {
	if len(cards) == 5 {
		return Evaluate5(cards)
	}

	best := HandRank{HighCard, 0}
	combo := make([]*entities.Card, 5)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == 5 {
			if rank := Evaluate5(combo); Compare(rank, best) > 0 {
				best = rank
			}
			return
		}
		for i := start; i <= len(cards)-(5-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return best
}

// straightHigh5 reports whether five descending values form a straight and
// the straight's high card. The wheel (A-2-3-4-5) counts as a 5-high
// straight, never as ace high.
func straightHigh5(desc []int) (bool, int) {
	unique := make([]int, 0, 5)
	for i, v := range desc {
		if i == 0 || desc[i-1] != v {
			unique = append(unique, v)
		}
	}
	if len(unique) != 5 {
		return false, 0
	}
	if unique[0]-unique[4] == 4 {
		return true, unique[0]
	}
	if unique[0] == 14 && unique[1] == 5 && unique[4] == 2 {
		return true, 5
	}
	return false, 0
}
