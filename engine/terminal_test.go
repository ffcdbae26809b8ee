package engine

import (
	"math/rand/v2"
	"testing"
)

func TestWinner(t *testing.T) {
	g := newGame(t, RoleCommoner, RoleCommoner, RoleCommoner)
	_, err := g.Winner()
	wantErr(t, err, ErrGameInProgress)
	if g.IsOver() {
		t.Error("three players: not over")
	}

	g.Eliminate(pA)
	g.Eliminate(pC)
	name, err := g.Winner()
	mustOK(t, err)
	if name != "B" {
		t.Errorf("Winner = %q, want B", name)
	}
	id, err := g.WinnerID()
	mustOK(t, err)
	if id != pB || !g.IsOver() {
		t.Errorf("WinnerID = %d, IsOver = %v", id, g.IsOver())
	}

	g.Eliminate(pB)
	_, err = g.WinnerID()
	wantErr(t, err, ErrGameInProgress)
}

// checkInvariants verifies the state properties that must hold after any
// sequence of accepted actions.
func checkInvariants(t *testing.T, g *Game, step int) {
	t.Helper()
	total := g.Bank()
	for _, p := range g.AllPlayers() {
		if p.Coins() < 0 {
			t.Fatalf("step %d: %s has %d coins", step, p.Name(), p.Coins())
		}
		total += p.Coins()
	}
	if total != g.Rules().StartingBank {
		t.Fatalf("step %d: bank+coins = %d, want %d", step, total, g.Rules().StartingBank)
	}

	roster := g.Roster()
	if len(roster) == 0 {
		t.Fatalf("step %d: empty roster", step)
	}
	if g.turnIdx < 0 || g.turnIdx >= len(roster) {
		t.Fatalf("step %d: cursor %d out of range %d", step, g.turnIdx, len(roster))
	}
	seen := make(map[PlayerID]bool, len(roster))
	for _, id := range roster {
		if seen[id] {
			t.Fatalf("step %d: %d appears twice in roster %v", step, id, roster)
		}
		seen[id] = true
	}
}

func TestRandomGamesKeepInvariants(t *testing.T) {
	const numGames = 40
	const maxSteps = 400

	for gameIdx := 0; gameIdx < numGames; gameIdx++ {
		g := NewGame(DefaultRules(), uint64(gameIdx)+1)
		n := 2 + gameIdx%5
		for i := 0; i < n; i++ {
			if _, _, err := g.AddRandomPlayer(string(rune('A' + i))); err != nil {
				t.Fatalf("game %d: AddRandomPlayer: %v", gameIdx, err)
			}
		}
		rng := rand.New(rand.NewPCG(uint64(gameIdx), 99))

		for step := 0; step < maxSteps && !g.IsOver(); step++ {
			all := g.AllPlayers()
			actor := all[rng.IntN(len(all))].ID()
			kinds := g.LegalActions(actor).List()
			if len(kinds) == 0 {
				continue
			}
			kind := kinds[rng.IntN(len(kinds))]
			target := NoPlayer
			if kind.Targeted() {
				targets := g.LegalTargets(actor, kind)
				target = targets[rng.IntN(len(targets))]
			}
			before := g.TurnNumber()
			if err := g.Apply(Action{Kind: kind, Actor: actor, Target: target}); err != nil {
				t.Fatalf("game %d step %d: legal %s by %d on %d rejected: %v", gameIdx, step, kind, actor, target, err)
			}
			if kind.Reactive() && g.TurnNumber() != before {
				t.Fatalf("game %d step %d: %s advanced the turn", gameIdx, step, kind)
			}
			checkInvariants(t, g, step)
		}
	}
}

func TestRandomGamesDeterministic(t *testing.T) {
	play := func(seed uint64) []string {
		g := NewGame(DefaultRules(), seed)
		for i := 0; i < 4; i++ {
			if _, _, err := g.AddRandomPlayer(string(rune('A' + i))); err != nil {
				t.Fatalf("AddRandomPlayer: %v", err)
			}
		}
		rng := rand.New(rand.NewPCG(seed, seed))
		for step := 0; step < 200 && !g.IsOver(); step++ {
			cur, _ := g.CurrentPlayer()
			kinds := g.LegalActions(cur).List()
			if len(kinds) == 0 {
				break
			}
			kind := kinds[rng.IntN(len(kinds))]
			target := NoPlayer
			if kind.Targeted() {
				targets := g.LegalTargets(cur, kind)
				target = targets[rng.IntN(len(targets))]
			}
			_ = g.Apply(Action{Kind: kind, Actor: cur, Target: target})
		}
		return g.ActionLog()
	}

	for seed := uint64(1); seed <= 5; seed++ {
		a, b := play(seed), play(seed)
		if len(a) != len(b) {
			t.Fatalf("seed %d: log lengths differ %d vs %d", seed, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("seed %d: logs diverge at %d: %q vs %q", seed, i, a[i], b[i])
			}
		}
	}
}
