package engine

import "fmt"

// Apply dispatches an action to the matching operation. Inspect results are
// discarded; call Inspect directly to read the balance.
func (g *Game) Apply(a Action) error {
	switch a.Kind {
	case ActionGather:
		return g.Gather(a.Actor)
	case ActionTax:
		return g.Tax(a.Actor)
	case ActionBribe:
		return g.Bribe(a.Actor)
	case ActionArrest:
		return g.Arrest(a.Actor, a.Target)
	case ActionSanction:
		return g.Sanction(a.Actor, a.Target)
	case ActionCoup:
		return g.Coup(a.Actor, a.Target)
	case ActionInvest:
		return g.Invest(a.Actor)
	case ActionBlockTax:
		return g.BlockTax(a.Actor, a.Target)
	case ActionBlockArrest:
		return g.BlockArrest(a.Actor, a.Target)
	case ActionInspect:
		_, err := g.Inspect(a.Actor, a.Target)
		return err
	case ActionBlockCoup:
		return g.BlockCoup(a.Actor, a.Target)
	case ActionCancelBribe:
		return g.CancelBribe(a.Actor, a.Target)
	case ActionCancelTax:
		return g.CancelTax(a.Actor, a.Target)
	default:
		return fmt.Errorf("%w: unhandled action kind %d", ErrIllegalAction, a.Kind)
	}
}

// Gather takes 1 coin from the bank.
func (g *Game) Gather(id PlayerID) error {
	if err := g.check(Action{Kind: ActionGather, Actor: id, Target: NoPlayer}); err != nil {
		return g.fail(id, ActionGather, NoPlayer, err)
	}
	p := g.players[id]
	g.started = true
	g.gain(p, g.rules.GatherAmount)
	g.record(id, ActionGather, NoPlayer, g.rules.GatherAmount, true)
	g.conclude(p)
	return nil
}

// Tax takes 2 coins from the bank (3 for a TaxBooster).
func (g *Game) Tax(id PlayerID) error {
	if err := g.check(Action{Kind: ActionTax, Actor: id, Target: NoPlayer}); err != nil {
		return g.fail(id, ActionTax, NoPlayer, err)
	}
	p := g.players[id]
	amount := g.taxAmount(p)
	g.started = true
	g.gain(p, amount)
	g.record(id, ActionTax, NoPlayer, amount, true)
	g.conclude(p)
	return nil
}

// Bribe pays 4 coins for an extra action. The turn does not advance; the
// action after next does.
func (g *Game) Bribe(id PlayerID) error {
	if err := g.check(Action{Kind: ActionBribe, Actor: id, Target: NoPlayer}); err != nil {
		return g.fail(id, ActionBribe, NoPlayer, err)
	}
	p := g.players[id]
	g.started = true
	if err := g.spend(p, g.rules.BribeCost); err != nil {
		return g.fail(id, ActionBribe, NoPlayer, err)
	}
	p.extraAction = true
	g.record(id, ActionBribe, NoPlayer, g.rules.BribeCost, true)
	return nil
}

// Arrest takes a coin from target, subject to the target's role reaction.
func (g *Game) Arrest(id, target PlayerID) error {
	if err := g.check(Action{Kind: ActionArrest, Actor: id, Target: target}); err != nil {
		return g.fail(id, ActionArrest, target, err)
	}
	p, t := g.players[id], g.players[target]
	g.started = true
	moved := g.onArrested(t, p)
	p.lastArrestTarget = target
	g.record(id, ActionArrest, target, moved, true)
	g.conclude(p)
	return nil
}

// Sanction pays 3 coins (4 against an Arbiter) to bar target from gather and
// tax until the end of target's next turn.
func (g *Game) Sanction(id, target PlayerID) error {
	if err := g.check(Action{Kind: ActionSanction, Actor: id, Target: target}); err != nil {
		return g.fail(id, ActionSanction, target, err)
	}
	p, t := g.players[id], g.players[target]
	g.started = true
	if err := g.spend(p, g.rules.SanctionCost); err != nil {
		return g.fail(id, ActionSanction, target, err)
	}
	g.block(target, BlockSanction)
	g.onSanction(t, p)
	g.record(id, ActionSanction, target, g.sanctionCost(t), true)
	g.conclude(p)
	return nil
}

// Coup pays 7 coins and eliminates target. The coup stays cancellable while
// its record is in the log.
func (g *Game) Coup(id, target PlayerID) error {
	if err := g.check(Action{Kind: ActionCoup, Actor: id, Target: target}); err != nil {
		return g.fail(id, ActionCoup, target, err)
	}
	p := g.players[id]
	g.started = true
	if err := g.spend(p, g.rules.CoupCost); err != nil {
		return g.fail(id, ActionCoup, target, err)
	}
	g.record(id, ActionCoup, target, g.rules.CoupCost, true)
	g.Eliminate(target)
	g.conclude(p)
	return nil
}

// conclude consumes a pending extra action or ends the turn.
func (g *Game) conclude(p *Player) {
	if p.extraAction {
		p.extraAction = false
		return
	}
	g.NextTurn()
}

// fail registers a failed display entry and returns err unchanged.
func (g *Game) fail(actor PlayerID, kind ActionKind, target PlayerID, err error) error {
	g.RegisterAction(actor, kind, target, false)
	return err
}

// ---------------------------------------------------------------------------
// Validation. check never mutates state; every operation calls it first.
// ---------------------------------------------------------------------------

func (g *Game) check(a Action) error {
	switch a.Kind {
	case ActionGather:
		p, err := g.checkEconomic(a.Actor)
		if err != nil {
			return err
		}
		if g.IsBlocked(p.id, BlockSanction) {
			return fmt.Errorf("%w: %s is sanctioned", ErrBlocked, p.name)
		}
		return nil

	case ActionTax:
		p, err := g.checkEconomic(a.Actor)
		if err != nil {
			return err
		}
		if g.IsBlocked(p.id, BlockTax) {
			return fmt.Errorf("%w: tax is blocked for %s", ErrBlocked, p.name)
		}
		if g.IsBlocked(p.id, BlockSanction) {
			return fmt.Errorf("%w: %s is sanctioned", ErrBlocked, p.name)
		}
		return nil

	case ActionBribe:
		p, err := g.checkEconomic(a.Actor)
		if err != nil {
			return err
		}
		if g.IsBlocked(p.id, BlockBribe) {
			return fmt.Errorf("%w: bribe is blocked for %s", ErrBlocked, p.name)
		}
		return requireFunds(p, g.rules.BribeCost)

	case ActionArrest:
		p, err := g.checkEconomic(a.Actor)
		if err != nil {
			return err
		}
		t, err := g.checkTarget(p, a.Target)
		if err != nil {
			return err
		}
		if g.IsBlocked(p.id, BlockArrest) {
			return fmt.Errorf("%w: arrest is blocked for %s", ErrBlocked, p.name)
		}
		if p.lastArrestTarget == t.id {
			return fmt.Errorf("%w: %s arrested %s last time", ErrRepeatArrest, p.name, t.name)
		}
		if t.coins <= 0 {
			return fmt.Errorf("%w: %s has no coins to take", ErrInvalidTarget, t.name)
		}
		return nil

	case ActionSanction:
		p, err := g.checkEconomic(a.Actor)
		if err != nil {
			return err
		}
		t, err := g.checkTarget(p, a.Target)
		if err != nil {
			return err
		}
		return requireFunds(p, g.sanctionCost(t))

	case ActionCoup:
		p, err := g.checkTurn(a.Actor)
		if err != nil {
			return err
		}
		if _, err := g.checkTarget(p, a.Target); err != nil {
			return err
		}
		return requireFunds(p, g.rules.CoupCost)

	case ActionInvest, ActionBlockTax, ActionBlockArrest, ActionInspect:
		return g.checkAbility(a)

	case ActionBlockCoup, ActionCancelBribe, ActionCancelTax:
		return g.checkVeto(a)
	}
	return fmt.Errorf("%w: unhandled action kind %d", ErrIllegalAction, a.Kind)
}

// checkTurn validates that id exists, holds the turn and that the game has
// enough players to be played.
func (g *Game) checkTurn(id PlayerID) (*Player, error) {
	p := g.Player(id)
	if p == nil {
		return nil, fmt.Errorf("%w: id %d", ErrNotInGame, id)
	}
	if err := g.ValidateTurn(id); err != nil {
		return nil, err
	}
	if !g.started && len(g.roster) < g.rules.minPlayers() {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughPlayers, g.rules.minPlayers(), len(g.roster))
	}
	return p, nil
}

// checkEconomic is checkTurn plus the mandatory-coup rule.
func (g *Game) checkEconomic(id PlayerID) (*Player, error) {
	p, err := g.checkTurn(id)
	if err != nil {
		return nil, err
	}
	if g.rules.MandatoryCoup > 0 && p.coins >= g.rules.MandatoryCoup {
		return nil, fmt.Errorf("%w: %s holds %d", ErrMandatoryCoup, p.name, p.coins)
	}
	return p, nil
}

// checkTarget validates that target is an active player other than p.
func (g *Game) checkTarget(p *Player, target PlayerID) (*Player, error) {
	t := g.Player(target)
	if t == nil {
		return nil, fmt.Errorf("%w: unknown target %d", ErrInvalidTarget, target)
	}
	if t.id == p.id {
		return nil, fmt.Errorf("%w: %s cannot target self", ErrInvalidTarget, p.name)
	}
	if !g.Active(target) {
		return nil, fmt.Errorf("%w: %s", ErrNotInGame, t.name)
	}
	return t, nil
}
