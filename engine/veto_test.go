package engine

import (
	"slices"
	"testing"
)

func TestDefenderBlocksCoupAgainstSelf(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleDefender)
	fund(g, pA, 7)
	fund(g, pB, 5)

	mustOK(t, g.Coup(pA, pB))
	if g.Active(pB) {
		t.Fatal("coup should eliminate B")
	}
	if !g.CancelableCoup(pB) {
		t.Fatal("coup should be cancelable")
	}
	if got := g.CoupBlockers(pB); !slices.Equal(got, []PlayerID{pB}) {
		t.Errorf("CoupBlockers = %v, want [B]", got)
	}

	mustOK(t, g.BlockCoup(pB, pB))
	if !g.Active(pB) || len(g.Roster()) != 2 {
		t.Fatalf("roster = %v, want A and B", g.Players())
	}
	wantCoins(t, g, pA, 0) // no refund for the attacker
	wantCoins(t, g, pB, 0)
	if g.Bank() != 50 {
		t.Errorf("Bank = %d, want 50", g.Bank())
	}
	if g.CancelableCoup(pB) {
		t.Error("coup record should be consumed")
	}
	wantErr(t, g.BlockCoup(pB, pB), ErrNothingToCancel)
}

func TestCoupCancelRoundTrip(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner, RoleDefender)
	fund(g, pA, 7)
	fund(g, pB, 3)
	fund(g, pC, 5)
	before := g.Roster()

	mustOK(t, g.Coup(pA, pB))
	turn := g.TurnNumber()
	mustOK(t, g.BlockCoup(pC, pB))

	after := g.Roster()
	slices.Sort(before)
	slices.Sort(after)
	if !slices.Equal(before, after) {
		t.Errorf("roster after cancel = %v, want %v", after, before)
	}
	wantCoins(t, g, pB, 3)
	wantCoins(t, g, pC, 0)
	if g.TurnNumber() != turn {
		t.Error("a veto must not advance the turn")
	}
}

func TestBlockCoupValidation(t *testing.T) {
	g := newGame(t, RoleDefender, RoleCommoner, RoleCommoner)
	fund(g, pA, 12)

	wantErr(t, g.BlockCoup(pA, pB), ErrNothingToCancel)
	mustOK(t, g.Coup(pA, pB))
	wantErr(t, g.BlockCoup(pA, pB), ErrInvalidTarget) // attacker
	wantErr(t, g.BlockCoup(pC, pB), ErrWrongRole)
	wantErr(t, g.BlockCoup(pB, pB), ErrWrongRole)
	wantErr(t, g.CancelCoup(pC), ErrNothingToCancel)
}

func TestEliminatedDefenderSavesOnlySelf(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleDefender, RoleCommoner)
	fund(g, pA, 7)
	fund(g, pB, 5)

	mustOK(t, g.Coup(pA, pC))
	wantCurrent(t, g, pB)
	mustOK(t, g.Gather(pB))

	fund(g, pA, 7)
	mustOK(t, g.Coup(pA, pB))

	wantErr(t, g.BlockCoup(pB, pC), ErrNotInGame)
	mustOK(t, g.BlockCoup(pB, pB))
	wantCoins(t, g, pB, 1)
}

func TestCoupWindowExpiresAfterRotation(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner, RoleDefender)
	fund(g, pA, 7)
	fund(g, pC, 5)

	mustOK(t, g.Coup(pA, pB))
	mustOK(t, g.Gather(pC))
	mustOK(t, g.Gather(pA))
	if !g.CancelableCoup(pB) {
		t.Fatal("coup should still be cancelable within one rotation")
	}
	mustOK(t, g.Gather(pC))
	if g.CancelableCoup(pB) {
		t.Fatal("coup should have aged out of the log")
	}
	wantErr(t, g.BlockCoup(pC, pB), ErrNothingToCancel)
	if got := g.CoupBlockers(pB); len(got) != 0 {
		t.Errorf("CoupBlockers = %v, want none", got)
	}
}

func TestCancelBribe(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleArbiter, RoleCommoner)
	fund(g, pA, 4)

	mustOK(t, g.Bribe(pA))
	if got := g.BribeCancellers(pA); !slices.Equal(got, []PlayerID{pB}) {
		t.Errorf("BribeCancellers = %v, want [B]", got)
	}
	wantErr(t, g.CancelBribe(pC, pA), ErrWrongRole)

	mustOK(t, g.CancelBribe(pB, pA))
	wantCoins(t, g, pA, 0)
	if g.Bank() != 50 {
		t.Errorf("Bank = %d, want 50", g.Bank())
	}
	if g.Player(pA).ExtraActionPending() {
		t.Error("extra action should be denied")
	}
	if !g.IsBlocked(pA, BlockBribe) {
		t.Error("briber should be bribe-blocked for the rest of the turn")
	}
	if g.CancelableBribe(pA) {
		t.Error("bribe record should be removed")
	}
	wantCurrent(t, g, pA)

	mustOK(t, g.Gather(pA))
	wantCurrent(t, g, pB)
	if g.IsBlocked(pA, BlockBribe) {
		t.Error("bribe block should expire with A's turn")
	}
	wantErr(t, g.CancelBribe(pB, pA), ErrNothingToCancel)
}

func TestCancelBribeSelf(t *testing.T) {
	g := newGame(t, RoleArbiter, RoleCommoner)
	fund(g, pA, 4)
	mustOK(t, g.Bribe(pA))
	wantErr(t, g.CancelBribe(pA, pA), ErrInvalidTarget)
	if len(g.BribeCancellers(pA)) != 0 {
		t.Error("nobody else can cancel")
	}
}

func TestCancelTax(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleTaxBooster)
	mustOK(t, g.Tax(pA))
	wantCoins(t, g, pA, 2)
	if got := g.TaxCancellers(pA); !slices.Equal(got, []PlayerID{pB}) {
		t.Errorf("TaxCancellers = %v, want [B]", got)
	}

	mustOK(t, g.CancelTax(pB, pA))
	wantCoins(t, g, pA, 0)
	if g.Bank() != 50 {
		t.Errorf("Bank = %d, want 50", g.Bank())
	}
	wantCurrent(t, g, pB)
	wantErr(t, g.CancelTax(pB, pA), ErrNothingToCancel)
	wantErr(t, g.CancelTax(pA, pB), ErrWrongRole)
}

func TestCancelTaxCapsAtBalance(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleTaxBooster, RoleCommoner)
	fund(g, pC, 2)
	mustOK(t, g.Tax(pA))
	mustOK(t, g.Gather(pB))
	mustOK(t, g.Arrest(pC, pA)) // A down to 1

	mustOK(t, g.CancelTax(pB, pA))
	wantCoins(t, g, pA, 0)
	if r, ok := g.LastAction(pB, ActionCancelTax); !ok || r.Amount != 1 {
		t.Errorf("cancel record = %+v, %v; want amount 1", r, ok)
	}
}
