package ceelo

// Tiers, highest first. The values are part of the rule table and are compared
// across implementations, so they must not change.
const (
	TierCeeLo      = 4
	TierTriple     = 3
	TierGenericWin = 2
	TierPoint      = 1
	TierNoScore    = 0
	TierAutoLoss   = -1
)

// Rank orders outcomes: Tier first, then Tiebreak. Higher wins.
type Rank struct {
	Tier     int
	Tiebreak int
}

// RankOf maps an outcome onto the rank table. A nil outcome ranks as NoScore.
func RankOf(o Outcome) Rank {
	switch v := o.(type) {
	case AutoWin:
		switch v.Hand {
		case HandCeeLo:
			return Rank{Tier: TierCeeLo, Tiebreak: 6}
		case HandTriple:
			return Rank{Tier: TierTriple, Tiebreak: v.Face}
		default:
			return Rank{Tier: TierGenericWin}
		}
	case Point:
		return Rank{Tier: TierPoint, Tiebreak: v.Value}
	case AutoLoss:
		return Rank{Tier: TierAutoLoss}
	default:
		return Rank{Tier: TierNoScore}
	}
}

// Compare returns -1, 0 or 1 as r ranks below, equal to or above o.
func (r Rank) Compare(o Rank) int {
	switch {
	case r.Tier < o.Tier:
		return -1
	case r.Tier > o.Tier:
		return 1
	case r.Tiebreak < o.Tiebreak:
		return -1
	case r.Tiebreak > o.Tiebreak:
		return 1
	}
	return 0
}

func (r Rank) Less(o Rank) bool { return r.Compare(o) < 0 }
