package engine

import "fmt"

// CancelCoup undoes the most recent coup against victim still in the log and
// puts the victim back on the roster at the cursor. It carries no role or
// cost check; BlockCoup is the player-facing form.
func (g *Game) CancelCoup(victim PlayerID) error {
	i := g.lastCoupAgainst(victim)
	if i < 0 {
		return fmt.Errorf("%w: no coup against player %d", ErrNothingToCancel, victim)
	}
	g.removeRecord(i)
	g.reinstate(victim)
	return nil
}

// BlockCoup lets a Defender pay 5 coins to cancel a coup against victim. The
// Defender may be the eliminated victim. The attacker is not refunded and the
// turn does not advance.
func (g *Game) BlockCoup(id, victim PlayerID) error {
	if err := g.check(Action{Kind: ActionBlockCoup, Actor: id, Target: victim}); err != nil {
		return g.fail(id, ActionBlockCoup, victim, err)
	}
	if err := g.spend(g.players[id], g.rules.BlockCoupCost); err != nil {
		return g.fail(id, ActionBlockCoup, victim, err)
	}
	if err := g.CancelCoup(victim); err != nil {
		return g.fail(id, ActionBlockCoup, victim, err)
	}
	g.record(id, ActionBlockCoup, victim, g.rules.BlockCoupCost, true)
	return nil
}

// CancelBribe lets an Arbiter void briber's most recent bribe. The 4 coins
// stay with the bank, the pending extra action is dropped and, if it is still
// the briber's turn, they cannot bribe again this turn.
func (g *Game) CancelBribe(id, briber PlayerID) error {
	if err := g.check(Action{Kind: ActionCancelBribe, Actor: id, Target: briber}); err != nil {
		return g.fail(id, ActionCancelBribe, briber, err)
	}
	i := g.findLast(func(r *ActionRecord) bool { return r.Actor == briber && r.Kind == ActionBribe })
	g.removeRecord(i)

	b := g.players[briber]
	b.extraAction = false
	if cur, ok := g.CurrentPlayer(); ok && cur == briber {
		g.block(briber, BlockBribe)
	}
	g.record(id, ActionCancelBribe, briber, 0, true)
	return nil
}

// CancelTax lets a TaxBooster void taxer's most recent tax. The taxer gives
// back what they collected, capped at their current balance.
func (g *Game) CancelTax(id, taxer PlayerID) error {
	if err := g.check(Action{Kind: ActionCancelTax, Actor: id, Target: taxer}); err != nil {
		return g.fail(id, ActionCancelTax, taxer, err)
	}
	i := g.findLast(func(r *ActionRecord) bool { return r.Actor == taxer && r.Kind == ActionTax })
	amount := g.log[i].Amount
	g.removeRecord(i)

	taken := g.forfeit(g.players[taxer], amount)
	g.record(id, ActionCancelTax, taxer, taken, true)
	return nil
}

// CoupBlockers lists the players who could block the coup against victim
// right now. Empty when no such coup is in the log.
func (g *Game) CoupBlockers(victim PlayerID) []PlayerID {
	return g.vetoers(ActionBlockCoup, victim)
}

// BribeCancellers lists the players who could cancel briber's last bribe.
func (g *Game) BribeCancellers(briber PlayerID) []PlayerID {
	return g.vetoers(ActionCancelBribe, briber)
}

// TaxCancellers lists the players who could cancel taxer's last tax.
func (g *Game) TaxCancellers(taxer PlayerID) []PlayerID {
	return g.vetoers(ActionCancelTax, taxer)
}

func (g *Game) vetoers(kind ActionKind, target PlayerID) []PlayerID {
	var out []PlayerID
	for _, p := range g.players {
		if g.checkVeto(Action{Kind: kind, Actor: p.id, Target: target}) == nil {
			out = append(out, p.id)
		}
	}
	return out
}

// checkVeto validates an out-of-turn cancellation. The turn holder is never
// consulted.
func (g *Game) checkVeto(a Action) error {
	p := g.Player(a.Actor)
	if p == nil {
		return fmt.Errorf("%w: id %d", ErrNotInGame, a.Actor)
	}
	t := g.Player(a.Target)
	if t == nil {
		return fmt.Errorf("%w: unknown target %d", ErrInvalidTarget, a.Target)
	}
	if err := requireRole(p, a.Kind); err != nil {
		return err
	}

	switch a.Kind {
	case ActionBlockCoup:
		// An eliminated Defender may save only themselves.
		if !g.Active(p.id) && p.id != t.id {
			return fmt.Errorf("%w: %s", ErrNotInGame, p.name)
		}
		i := g.lastCoupAgainst(t.id)
		if i < 0 {
			return fmt.Errorf("%w: no coup against %s", ErrNothingToCancel, t.name)
		}
		if g.log[i].Actor == p.id {
			return fmt.Errorf("%w: %s launched this coup", ErrInvalidTarget, p.name)
		}
		return requireFunds(p, g.rules.BlockCoupCost)

	case ActionCancelBribe, ActionCancelTax:
		if !g.Active(p.id) {
			return fmt.Errorf("%w: %s", ErrNotInGame, p.name)
		}
		if p.id == t.id {
			return fmt.Errorf("%w: %s cannot target self", ErrInvalidTarget, p.name)
		}
		undone := ActionBribe
		if a.Kind == ActionCancelTax {
			undone = ActionTax
		}
		if _, ok := g.LastAction(t.id, undone); !ok {
			return fmt.Errorf("%w: no %s by %s", ErrNothingToCancel, undone, t.name)
		}
		return nil
	}
	return fmt.Errorf("%w: %s is not a veto", ErrIllegalAction, a.Kind)
}
