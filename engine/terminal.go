package engine

import "fmt"

// IsOver returns true when exactly one active player remains.
func (g *Game) IsOver() bool { return len(g.roster) == 1 }

// Winner returns the name of the last remaining player. It fails with
// ErrGameInProgress unless exactly one player is active.
func (g *Game) Winner() (string, error) {
	if len(g.roster) != 1 {
		return "", fmt.Errorf("%w: %d players remain", ErrGameInProgress, len(g.roster))
	}
	return g.players[g.roster[0]].name, nil
}

// WinnerID is Winner returning the player handle.
func (g *Game) WinnerID() (PlayerID, error) {
	if len(g.roster) != 1 {
		return NoPlayer, fmt.Errorf("%w: %d players remain", ErrGameInProgress, len(g.roster))
	}
	return g.roster[0], nil
}
