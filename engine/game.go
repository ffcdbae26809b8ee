// Package engine implements the Coup rules.
//
// A Game owns the arena of player records, the ordered roster of active
// players, the turn cursor, the bank, the action log and the one-shot block
// flags. Every coin mutation and turn query goes through Game; there is no
// locking, callers serialise access.
package engine

import (
	"fmt"
	"strings"
)

// Game holds the complete state of one Coup game.
type Game struct {
	players []*Player  // arena, indexed by PlayerID
	roster  []PlayerID // active players in turn order
	blocks  []Block    // one-shot restrictions, indexed by PlayerID

	turnIdx    int // cursor into roster
	turnNumber int // increments on every NextTurn
	bank       int
	started    bool

	log        []ActionRecord
	displayLog []string

	rules Rules
	rng   uint64
}

// NewGame creates an empty game. The seed drives random role assignment only.
func NewGame(rules Rules, seed uint64) *Game {
	g := &Game{
		rules: rules,
		bank:  rules.StartingBank,
		rng:   seed,
	}
	if g.rng == 0 {
		g.rng = 1 // xorshift can't start at 0
	}
	return g
}

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *Game) nextRand() uint64 {
	x := g.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.rng = x
	return x
}

// ---------------------------------------------------------------------------
// Roster management
// ---------------------------------------------------------------------------

// AddPlayer creates a player record and appends it to the roster.
func (g *Game) AddPlayer(name string, role Role) (PlayerID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoPlayer, fmt.Errorf("%w: empty name", ErrNullPlayer)
	}
	if !role.Valid() {
		return NoPlayer, fmt.Errorf("%w: unknown role %d", ErrNullPlayer, role)
	}
	if g.started {
		return NoPlayer, fmt.Errorf("%w: cannot add %s", ErrGameStarted, name)
	}
	if len(g.roster) >= g.rules.maxPlayers() {
		return NoPlayer, fmt.Errorf("%w: game already has %d players", ErrRosterFull, len(g.roster))
	}
	if _, ok := g.Lookup(name); ok {
		return NoPlayer, fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}

	id := PlayerID(len(g.players))
	g.players = append(g.players, &Player{
		id:               id,
		name:             name,
		role:             role,
		lastArrestTarget: NoPlayer,
	})
	g.blocks = append(g.blocks, 0)
	g.roster = append(g.roster, id)
	if g.rules.StartingCoins > 0 {
		g.gain(g.players[id], g.rules.StartingCoins)
	}
	return id, nil
}

// AddRandomPlayer adds a player with a role drawn from the game's RNG.
func (g *Game) AddRandomPlayer(name string) (PlayerID, Role, error) {
	roles := Roles()
	role := roles[g.nextRand()%uint64(len(roles))]
	id, err := g.AddPlayer(name, role)
	if err != nil {
		return NoPlayer, role, err
	}
	return id, role, nil
}

// SetRole changes a player's role. Only legal before the first action.
func (g *Game) SetRole(id PlayerID, role Role) error {
	p := g.Player(id)
	if p == nil {
		return fmt.Errorf("%w: id %d", ErrNotInGame, id)
	}
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %d", ErrNullPlayer, role)
	}
	if g.started {
		return fmt.Errorf("%w: cannot change role of %s", ErrGameStarted, p.name)
	}
	p.role = role
	return nil
}

// Eliminate removes id from the roster, keeping the cursor on the same
// logical player. The arena record survives for reinstatement.
func (g *Game) Eliminate(id PlayerID) {
	removed := g.rosterIndex(id)
	if removed < 0 {
		return
	}
	g.roster = append(g.roster[:removed], g.roster[removed+1:]...)

	if len(g.roster) == 0 {
		g.turnIdx = 0
		return
	}
	if removed < g.turnIdx {
		g.turnIdx--
	}
	if g.turnIdx >= len(g.roster) {
		g.turnIdx %= len(g.roster)
	}
}

// reinstate inserts id into the roster at the cursor position.
func (g *Game) reinstate(id PlayerID) {
	if g.rosterIndex(id) >= 0 {
		return
	}
	g.roster = append(g.roster, NoPlayer)
	copy(g.roster[g.turnIdx+1:], g.roster[g.turnIdx:])
	g.roster[g.turnIdx] = id
}

func (g *Game) rosterIndex(id PlayerID) int {
	for i, pid := range g.roster {
		if pid == id {
			return i
		}
	}
	return -1
}

// ---------------------------------------------------------------------------
// Turn control
// ---------------------------------------------------------------------------

// CurrentPlayer returns the player whose turn it is, or false if the roster
// is empty.
func (g *Game) CurrentPlayer() (PlayerID, bool) {
	if len(g.roster) == 0 {
		return NoPlayer, false
	}
	return g.roster[g.turnIdx], true
}

// ValidateTurn fails with ErrNotYourTurn unless id is the current player.
func (g *Game) ValidateTurn(id PlayerID) error {
	cur, ok := g.CurrentPlayer()
	if !ok {
		return ErrNoPlayers
	}
	if cur != id {
		return fmt.Errorf("%w: it is %s's turn", ErrNotYourTurn, g.players[cur].name)
	}
	return nil
}

// NextTurn ends the current player's turn: their one-shot blocks expire, the
// log is pruned, the cursor advances and the new player's start-of-turn hook
// runs. No-op on an empty roster.
func (g *Game) NextTurn() {
	if len(g.roster) == 0 {
		return
	}
	ending := g.roster[g.turnIdx]
	g.blocks[ending] = 0
	g.players[ending].extraAction = false

	g.pruneLog()
	g.turnNumber++
	g.turnIdx = (g.turnIdx + 1) % len(g.roster)
	g.startOfTurn(g.players[g.roster[g.turnIdx]])
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// Player returns the arena record for id, or nil if unknown.
func (g *Game) Player(id PlayerID) *Player {
	if id < 0 || int(id) >= len(g.players) {
		return nil
	}
	return g.players[id]
}

// Lookup finds a player by name, including eliminated players.
func (g *Game) Lookup(name string) (PlayerID, bool) {
	for _, p := range g.players {
		if p.name == name {
			return p.id, true
		}
	}
	return NoPlayer, false
}

// Turn returns the name of the current player.
func (g *Game) Turn() (string, error) {
	cur, ok := g.CurrentPlayer()
	if !ok {
		return "", ErrNoPlayers
	}
	return g.players[cur].name, nil
}

// Players returns the names of the active players in turn order.
func (g *Game) Players() []string {
	names := make([]string, 0, len(g.roster))
	for _, id := range g.roster {
		names = append(names, g.players[id].name)
	}
	return names
}

// Roster returns the active player handles in turn order.
func (g *Game) Roster() []PlayerID {
	out := make([]PlayerID, len(g.roster))
	copy(out, g.roster)
	return out
}

// AllPlayers returns every player record ever added, including eliminated ones.
func (g *Game) AllPlayers() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Active reports whether id is on the roster.
func (g *Game) Active(id PlayerID) bool { return g.rosterIndex(id) >= 0 }

// Bank returns the bank balance.
func (g *Game) Bank() int { return g.bank }

// Rules returns the rule set the game was created with.
func (g *Game) Rules() Rules { return g.rules }

// Started reports whether any action has succeeded yet.
func (g *Game) Started() bool { return g.started }

// TurnNumber returns how many times the turn has advanced.
func (g *Game) TurnNumber() int { return g.turnNumber }

// Blocks returns the one-shot restrictions currently held against id.
func (g *Game) Blocks(id PlayerID) Block {
	if g.Player(id) == nil {
		return 0
	}
	return g.blocks[id]
}

// IsBlocked reports whether id currently holds block b.
func (g *Game) IsBlocked(id PlayerID, b Block) bool { return g.Blocks(id)&b != 0 }

func (g *Game) block(id PlayerID, b Block) { g.blocks[id] |= b }
