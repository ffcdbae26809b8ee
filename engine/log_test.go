package engine

import (
	"slices"
	"testing"
)

func TestDisplayLogFormat(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner)
	fund(g, pB, 2)

	mustOK(t, g.Gather(pA))
	_ = g.Gather(pA)
	mustOK(t, g.Arrest(pB, pA))
	g.RegisterAction(pA, ActionSanction, pB, false)

	want := []string{
		"A,Gather,Succeeded",
		"A,Gather,Failed",
		"B,Arrest for A,Succeeded",
		"A,Sanction for B,Failed",
	}
	if got := g.ActionLog(); !slices.Equal(got, want) {
		t.Errorf("ActionLog =\n%v\nwant\n%v", got, want)
	}
}

func TestRegisterActionSuccessEntersUndoLog(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner)
	g.RegisterAction(pA, ActionBribe, NoPlayer, true)
	r, ok := g.LastAction(pA, ActionBribe)
	if !ok {
		t.Fatal("registered bribe not found")
	}
	if r.Target != NoPlayer || r.Turn != 0 {
		t.Errorf("record = %+v", r)
	}
	if !g.CancelableBribe(pA) {
		t.Error("bribe should be cancelable")
	}
}

func TestLogPrunedAfterRotation(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner)
	for i := 0; i < 2; i++ {
		mustOK(t, g.Gather(pA))
		mustOK(t, g.Gather(pB))
	}
	recs := g.Records()
	if len(recs) != 3 {
		t.Fatalf("records = %+v, want 3", recs)
	}
	if recs[0].Turn != 1 || recs[0].Actor != pB {
		t.Errorf("oldest record = %+v, want B's gather at turn 1", recs[0])
	}
	if _, ok := g.LastAction(pA, ActionGather); !ok {
		t.Error("A's recent gather should remain")
	}
	if len(g.ActionLog()) != 4 {
		t.Error("display log is never pruned")
	}
}

func TestCancelableTaxWindow(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner)
	mustOK(t, g.Tax(pA))
	if !g.CancelableTax(pA) {
		t.Fatal("fresh tax should be cancelable")
	}
	mustOK(t, g.Gather(pB))
	mustOK(t, g.Gather(pA))
	mustOK(t, g.Gather(pB))
	if g.CancelableTax(pA) {
		t.Error("tax should have aged out")
	}
}
