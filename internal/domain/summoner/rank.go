package summoner

type Tier string

const (
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

type Division string

const (
	DivisionIV  Division = "IV"
	DivisionIII Division = "III"
	DivisionII  Division = "II"
	DivisionI   Division = "I"
)

// Ordinal tables for the rank total order, kept as data rather than
// branching. Division ordinals run opposite to the numeral face value:
// IV is the weakest, I the strongest.
var (
	tierOrder = map[Tier]int{
		TierIron:        1,
		TierBronze:      2,
		TierSilver:      3,
		TierGold:        4,
		TierPlatinum:    5,
		TierDiamond:     6,
		TierMaster:      7,
		TierGrandmaster: 8,
		TierChallenger:  9,
	}

	divisionOrder = map[Division]int{
		DivisionIV:  1,
		DivisionIII: 2,
		DivisionII:  3,
		DivisionI:   4,
	}
)

func (t Tier) Ordinal() int { return tierOrder[t] }

func (d Division) Ordinal() int { return divisionOrder[d] }

func (t Tier) Valid() bool { _, ok := tierOrder[t]; return ok }

func (d Division) Valid() bool { _, ok := divisionOrder[d]; return ok }

// CompareRank orders two rank entries: tier first, then division, then
// league points. Returns >0 when a outranks b, <0 when b outranks a.
// A nil or tierless entry ranks below any ranked entry.
func CompareRank(a, b *RankEntry) int {
	ao, bo := 0, 0
	if a != nil {
		ao = a.Tier.Ordinal()
	}
	if b != nil {
		bo = b.Tier.Ordinal()
	}
	if ao != bo {
		return ao - bo
	}
	if a == nil || b == nil {
		return 0
	}

	if d := a.Division.Ordinal() - b.Division.Ordinal(); d != 0 {
		return d
	}
	return a.LeaguePoints - b.LeaguePoints
}
