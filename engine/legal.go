package engine

// LegalActions returns the set of action kinds id could perform right now.
// A targeted kind is included when at least one target would be accepted.
// Validation is side-effect free, so this never touches the logs.
func (g *Game) LegalActions(id PlayerID) ActionSet {
	var set ActionSet
	if g.Player(id) == nil {
		return set
	}
	for k := ActionKind(0); k < NumActionKinds; k++ {
		if k == ActionBonus {
			continue
		}
		if !k.Targeted() {
			if g.check(Action{Kind: k, Actor: id, Target: NoPlayer}) == nil {
				set.add(k)
			}
			continue
		}
		if len(g.LegalTargets(id, k)) > 0 {
			set.add(k)
		}
	}
	return set
}

// LegalTargets lists the players id could aim kind at right now.
func (g *Game) LegalTargets(id PlayerID, kind ActionKind) []PlayerID {
	if !kind.Targeted() {
		return nil
	}
	var out []PlayerID
	for _, t := range g.players {
		if g.check(Action{Kind: kind, Actor: id, Target: t.id}) == nil {
			out = append(out, t.id)
		}
	}
	return out
}

// Legal reports whether a would pass validation.
func (g *Game) Legal(a Action) bool {
	if a.Kind >= NumActionKinds || a.Kind == ActionBonus {
		return false
	}
	return g.check(a) == nil
}
