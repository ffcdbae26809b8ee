package engine

import (
	"slices"
	"testing"
)

func TestLegalActionsFreshGame(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner)

	got := g.LegalActions(pA).List()
	want := []ActionKind{ActionGather, ActionTax}
	if !slices.Equal(got, want) {
		t.Errorf("LegalActions(A) = %v, want %v", got, want)
	}
	if set := g.LegalActions(pB); set != 0 {
		t.Errorf("LegalActions(B) off-turn = %v, want empty", set.List())
	}
	if set := g.LegalActions(PlayerID(5)); set != 0 {
		t.Error("unknown player should have no legal actions")
	}
}

func TestLegalActionsMandatoryCoup(t *testing.T) {
	g := newGame(t, RoleInvestor, RoleCommoner)
	fund(g, pA, 10)
	fund(g, pB, 1)

	got := g.LegalActions(pA).List()
	if !slices.Equal(got, []ActionKind{ActionCoup}) {
		t.Errorf("LegalActions = %v, want only Coup", got)
	}
}

func TestLegalActionsRoles(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleInspector, RoleTaxBooster)
	fund(g, pA, 4)
	fund(g, pB, 4)

	// Off-turn Inspector can only inspect.
	if got := g.LegalActions(pB).List(); !slices.Equal(got, []ActionKind{ActionInspect}) {
		t.Errorf("LegalActions(B) = %v, want [Inspect]", got)
	}

	mustOK(t, g.Tax(pA))
	set := g.LegalActions(pC)
	if !set.Has(ActionCancelTax) {
		t.Error("TaxBooster should be able to cancel A's tax")
	}
	if set.Has(ActionBlockTax) {
		t.Error("BlockTax needs the turn")
	}

	set = g.LegalActions(pB)
	for _, k := range []ActionKind{ActionGather, ActionTax, ActionBribe, ActionArrest, ActionSanction, ActionBlockArrest, ActionInspect} {
		if !set.Has(k) {
			t.Errorf("LegalActions(B) missing %s", k)
		}
	}
	if set.Has(ActionCoup) || set.Has(ActionInvest) {
		t.Errorf("LegalActions(B) = %v", set.List())
	}
}

func TestLegalTargets(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner, RoleCommoner)
	fund(g, pA, 7)
	fund(g, pC, 1)

	if got := g.LegalTargets(pA, ActionCoup); !slices.Equal(got, []PlayerID{pB, pC}) {
		t.Errorf("coup targets = %v, want [B C]", got)
	}
	if got := g.LegalTargets(pA, ActionArrest); !slices.Equal(got, []PlayerID{pC}) {
		t.Errorf("arrest targets = %v, want [C]", got)
	}
	if got := g.LegalTargets(pA, ActionGather); got != nil {
		t.Errorf("untargeted kind returned %v", got)
	}
	if g.Legal(Action{Kind: ActionBonus, Actor: pA}) {
		t.Error("Bonus is never legal")
	}
	if !g.Legal(Action{Kind: ActionGather, Actor: pA, Target: NoPlayer}) {
		t.Error("gather should be legal")
	}
}
