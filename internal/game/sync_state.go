// internal/game/sync_state.go
package game

import (
	"github.com/MasterYoav/coupGame/engine"
	"github.com/google/uuid"
)

// ObfPlayerState is one player as seen by a particular observer.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	Connected     bool      `json:"connected"`
	Active        bool      `json:"active"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// Coins is nil unless the observer may see it: always for self, and for
	// everyone when the observer is an Inspector.
	Coins  *int     `json:"coins,omitempty"`
	Blocks []string `json:"blocks,omitempty"`
}

// ObfGameState is the whole table for one observer.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnNumber      int              `json:"turnNumber"`
	Bank            int              `json:"bank"`
	Players         []ObfPlayerState `json:"players"`
	LegalActions    []string         `json:"legalActions,omitempty"`
}

var blockNames = []struct {
	b    engine.Block
	name string
}{
	{engine.BlockArrest, "arrest"},
	{engine.BlockSanction, "sanction"},
	{engine.BlockTax, "tax"},
	{engine.BlockBribe, "bribe"},
}

// GetCurrentObfuscatedGameState returns the state as forUser may see it.
func (g *CoupGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.obfuscatedState(forUser)
}

// obfuscatedState assumes the lock is held.
func (g *CoupGame) obfuscatedState(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:     g.ID,
		Started:    g.Engine.Started(),
		GameOver:   g.GameOver,
		TurnNumber: g.Engine.TurnNumber(),
		Bank:       g.Engine.Bank(),
	}
	if !g.GameOver {
		obf.CurrentPlayerID = g.currentPlayerID()
	}

	seesAll := false
	observer, isPlayer := g.PlayerToEngine[forUser]
	if isPlayer {
		seesAll = g.Engine.Player(observer).Role() == engine.RoleInspector && g.Engine.Active(observer)
	}

	obf.Players = make([]ObfPlayerState, len(g.Players))
	for i, pl := range g.Players {
		eid := g.PlayerToEngine[pl.ID]
		ep := g.Engine.Player(eid)
		ps := ObfPlayerState{
			PlayerID:      pl.ID,
			Name:          pl.Name,
			Role:          ep.Role().String(),
			Connected:     pl.Connected,
			Active:        g.Engine.Active(eid),
			IsCurrentTurn: pl.ID == obf.CurrentPlayerID,
		}
		if pl.ID == forUser || seesAll {
			coins := ep.Coins()
			ps.Coins = &coins
		}
		blocks := g.Engine.Blocks(eid)
		for _, bn := range blockNames {
			if blocks&bn.b != 0 {
				ps.Blocks = append(ps.Blocks, bn.name)
			}
		}
		obf.Players[i] = ps
	}

	if isPlayer && !g.GameOver {
		for _, k := range g.Engine.LegalActions(observer).List() {
			obf.LegalActions = append(obf.LegalActions, ActionType(k))
		}
	}
	return obf
}
