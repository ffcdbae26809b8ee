package engine

// Rules holds the coin amounts and limits of a game.
type Rules struct {
	StartingBank  int // coins in the bank at creation; may go negative
	StartingCoins int // coins each player joins with
	MinPlayers    int // active players required before the first action
	MaxPlayers    int // roster capacity

	MandatoryCoup int // holding at least this many coins forces a coup

	GatherAmount   int
	TaxAmount      int
	BoostedTax     int // TaxBooster's tax
	BribeCost      int
	ArrestAmount   int
	SanctionCost   int
	ArbiterPenalty int // extra paid by whoever sanctions an Arbiter
	CoupCost       int

	InvestCost   int
	InvestReturn int

	BlockCoupCost int

	SustainerThreshold int // coins needed at start of turn for the bonus
	SustainerBonus     int
	SustainerPenalty   int // paid to the bank when a Sustainer is arrested

	InvestorCompensation int // gained by an Investor when sanctioned
	DefenderRefund       int // gained by a Defender when arrested
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		StartingBank:  50,
		StartingCoins: 0,
		MinPlayers:    2,
		MaxPlayers:    6,

		MandatoryCoup: 10,

		GatherAmount:   1,
		TaxAmount:      2,
		BoostedTax:     3,
		BribeCost:      4,
		ArrestAmount:   1,
		SanctionCost:   3,
		ArbiterPenalty: 1,
		CoupCost:       7,

		InvestCost:   3,
		InvestReturn: 6,

		BlockCoupCost: 5,

		SustainerThreshold: 3,
		SustainerBonus:     1,
		SustainerPenalty:   2,

		InvestorCompensation: 1,
		DefenderRefund:       1,
	}
}

// maxPlayers returns the effective roster capacity, treating 0 as 6.
func (r *Rules) maxPlayers() int {
	if r.MaxPlayers <= 0 {
		return 6
	}
	return r.MaxPlayers
}

// minPlayers returns the effective minimum, treating 0 as 2.
func (r *Rules) minPlayers() int {
	if r.MinPlayers <= 0 {
		return 2
	}
	return r.MinPlayers
}
