package poker

// PaytableEntry is one row of the video poker paytable
type PaytableEntry struct {
	Name       string
	Multiplier int64
}

// Paytable lists the payable video poker hands, strongest first
var Paytable = []PaytableEntry{
	{"ROYAL FLUSH", 250},
	{"STRAIGHT FLUSH", 50},
	{"FOUR OF A KIND", 25},
	{"FULL HOUSE", 9},
	{"FLUSH", 6},
	{"STRAIGHT", 4},
	{"THREE OF A KIND", 3},
	{"TWO PAIR", 2},
	{"JACKS OR BETTER", 1},
}

// jacksOrBetterMin is the lowest pair rank that pays (Jack = 11)
const jacksOrBetterMin = 11

// Payout looks up the paytable entry for a hand. A bare pair only pays at
// Jacks or better; anything weaker returns false.
func Payout(rank HandRank) (PaytableEntry, bool) {
	switch rank.Category {
	case RoyalFlush:
		return Paytable[0], true
	case StraightFlush:
		return Paytable[1], true
	case FourOfAKind:
		return Paytable[2], true
	case FullHouse:
		return Paytable[3], true
	case Flush:
		return Paytable[4], true
	case Straight:
		return Paytable[5], true
	case ThreeOfAKind:
		return Paytable[6], true
	case TwoPair:
		return Paytable[7], true
	case Pair:
		if rank.TieBreak >= jacksOrBetterMin {
			return Paytable[8], true
		}
		return PaytableEntry{}, false
	default:
		return PaytableEntry{}, false
	}
}
