package engine

import "fmt"

// ---------------------------------------------------------------------------
// Role hooks. Each switch is the complete dispatch table for one override.
// ---------------------------------------------------------------------------

// taxAmount returns what p collects for a tax.
func (g *Game) taxAmount(p *Player) int {
	switch p.role {
	case RoleTaxBooster:
		return g.rules.BoostedTax
	default:
		return g.rules.TaxAmount
	}
}

// sanctionCost returns the full price of sanctioning t, surcharge included.
func (g *Game) sanctionCost(t *Player) int {
	switch t.role {
	case RoleArbiter:
		return g.rules.SanctionCost + g.rules.ArbiterPenalty
	default:
		return g.rules.SanctionCost
	}
}

// onSanction runs t's reaction after attacker has paid the base cost.
func (g *Game) onSanction(t, attacker *Player) {
	switch t.role {
	case RoleInvestor:
		g.gain(t, g.rules.InvestorCompensation)
	case RoleArbiter:
		// Covered by the up-front funds check in sanctionCost.
		_ = g.spend(attacker, g.rules.ArbiterPenalty)
	}
}

// onArrested moves coins for an arrest of t by attacker and returns how many
// the attacker received.
func (g *Game) onArrested(t, attacker *Player) int {
	switch t.role {
	case RoleSustainer:
		g.forfeit(t, g.rules.SustainerPenalty)
		return 0
	case RoleDefender:
		moved := g.transfer(t, attacker, g.rules.ArrestAmount)
		g.gain(t, g.rules.DefenderRefund)
		return moved
	default:
		return g.transfer(t, attacker, g.rules.ArrestAmount)
	}
}

// transfer moves up to amount coins from one player to another. The bank is
// untouched.
func (g *Game) transfer(from, to *Player, amount int) int {
	if amount > from.coins {
		amount = from.coins
	}
	if amount <= 0 {
		return 0
	}
	from.coins -= amount
	to.coins += amount
	return amount
}

// startOfTurn runs p's passive effects when their turn begins.
func (g *Game) startOfTurn(p *Player) {
	switch p.role {
	case RoleSustainer:
		if p.coins >= g.rules.SustainerThreshold {
			g.gain(p, g.rules.SustainerBonus)
			g.record(p.id, ActionBonus, NoPlayer, g.rules.SustainerBonus, true)
		}
	}
}

// ---------------------------------------------------------------------------
// Role abilities
// ---------------------------------------------------------------------------

// Invest spends 3 coins and collects 6. Investor only; consumes the turn.
func (g *Game) Invest(id PlayerID) error {
	if err := g.check(Action{Kind: ActionInvest, Actor: id, Target: NoPlayer}); err != nil {
		return g.fail(id, ActionInvest, NoPlayer, err)
	}
	p := g.players[id]
	g.started = true
	if err := g.spend(p, g.rules.InvestCost); err != nil {
		return g.fail(id, ActionInvest, NoPlayer, err)
	}
	g.gain(p, g.rules.InvestReturn)
	g.record(id, ActionInvest, NoPlayer, g.rules.InvestReturn-g.rules.InvestCost, true)
	g.conclude(p)
	return nil
}

// BlockTax bars target from taxing until their next turn ends. TaxBooster
// only; consumes the turn.
func (g *Game) BlockTax(id, target PlayerID) error {
	return g.proactiveBlock(id, target, ActionBlockTax, BlockTax)
}

// BlockArrest bars target from arresting until their next turn ends.
// Inspector only; consumes the turn.
func (g *Game) BlockArrest(id, target PlayerID) error {
	return g.proactiveBlock(id, target, ActionBlockArrest, BlockArrest)
}

func (g *Game) proactiveBlock(id, target PlayerID, kind ActionKind, b Block) error {
	if err := g.check(Action{Kind: kind, Actor: id, Target: target}); err != nil {
		return g.fail(id, kind, target, err)
	}
	p := g.players[id]
	g.started = true
	g.block(target, b)
	g.record(id, kind, target, 0, true)
	g.conclude(p)
	return nil
}

// Inspect returns target's coin balance. Inspector only; free, may be used
// off-turn and never consumes a turn.
func (g *Game) Inspect(id, target PlayerID) (int, error) {
	if err := g.check(Action{Kind: ActionInspect, Actor: id, Target: target}); err != nil {
		return 0, g.fail(id, ActionInspect, target, err)
	}
	g.display(id, ActionInspect, target, true)
	return g.players[target].coins, nil
}

// abilityRole maps each role ability to the role allowed to use it.
var abilityRole = map[ActionKind]Role{
	ActionInvest:      RoleInvestor,
	ActionBlockTax:    RoleTaxBooster,
	ActionBlockArrest: RoleInspector,
	ActionInspect:     RoleInspector,
	ActionBlockCoup:   RoleDefender,
	ActionCancelBribe: RoleArbiter,
	ActionCancelTax:   RoleTaxBooster,
}

func requireRole(p *Player, kind ActionKind) error {
	if want := abilityRole[kind]; p.role != want {
		return fmt.Errorf("%w: %s is %s, %s needs %s", ErrWrongRole, p.name, p.role, kind, want)
	}
	return nil
}

func (g *Game) checkAbility(a Action) error {
	if a.Kind == ActionInspect {
		p := g.Player(a.Actor)
		if p == nil || !g.Active(a.Actor) {
			return fmt.Errorf("%w: id %d", ErrNotInGame, a.Actor)
		}
		if err := requireRole(p, a.Kind); err != nil {
			return err
		}
		_, err := g.checkTarget(p, a.Target)
		return err
	}

	p, err := g.checkEconomic(a.Actor)
	if err != nil {
		return err
	}
	if err := requireRole(p, a.Kind); err != nil {
		return err
	}
	switch a.Kind {
	case ActionInvest:
		return requireFunds(p, g.rules.InvestCost)
	case ActionBlockTax, ActionBlockArrest:
		t, err := g.checkTarget(p, a.Target)
		if err != nil {
			return err
		}
		b := BlockTax
		if a.Kind == ActionBlockArrest {
			b = BlockArrest
		}
		if g.IsBlocked(t.id, b) {
			return fmt.Errorf("%w: %s", ErrAlreadyBlocked, t.name)
		}
	}
	return nil
}
