// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MasterYoav/coupGame/engine"
	"github.com/MasterYoav/coupGame/internal/historian"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc is called once when a game finishes with the winner's ID.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID)

// GameEventType names an event sent to consumers.
type GameEventType string

const (
	EventPlayerJoin        GameEventType = "player_join"         // Public: a player joined before start.
	EventPlayerAction      GameEventType = "player_action"       // Public: an action succeeded.
	EventPrivateActionFail GameEventType = "private_action_fail" // Private: the actor's attempt was rejected.
	EventGamePlayerTurn    GameEventType = "game_player_turn"    // Public: the turn moved to a new player.
	EventPlayerEliminated  GameEventType = "player_eliminated"   // Public: a coup removed a player.
	EventPlayerReinstated  GameEventType = "player_reinstated"   // Public: a blocked coup brought a player back.
	EventVetoWindow        GameEventType = "veto_window"         // Public: an action can be vetoed by the listed players.
	EventPrivateInspect    GameEventType = "private_inspect"     // Private: coin balance revealed to an Inspector.
	EventPrivateSyncState  GameEventType = "private_sync_state"  // Private: full state for one observer.
	EventGameEnd           GameEventType = "game_end"            // Public: final result.
)

// EventUser identifies a player inside an event.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// GameEvent is the envelope for every broadcast.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`   // actor or subject
	Target  *EventUser             `json:"target,omitempty"` // target of the action, if any
	Action  string                 `json:"action,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfGameState `json:"state,omitempty"` // sync events only
}

// Player is a seat at the table.
type Player struct {
	ID        uuid.UUID
	Name      string
	Role      engine.Role
	Connected bool
}

// CoupGame wraps one engine.Game with identities, locking, logging and event
// fan-out. Exported methods take Mu; unexported helpers assume it is held.
type CoupGame struct {
	ID uuid.UUID

	Players []*Player

	Engine         *engine.Game
	PlayerToEngine map[uuid.UUID]engine.PlayerID
	EngineToPlayer map[engine.PlayerID]uuid.UUID

	GameOver   bool
	lastTurn   engine.PlayerID
	actionIdx  int
	pubTimeout time.Duration

	Mu  sync.Mutex
	Log *logrus.Entry

	Historian historian.Publisher
	pubWG     sync.WaitGroup

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc
}

// NewCoupGame creates an empty game. A nil logger falls back to the logrus
// standard logger.
func NewCoupGame(rules engine.Rules, seed uint64, logger *logrus.Logger) *CoupGame {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	return &CoupGame{
		ID:             id,
		Engine:         engine.NewGame(rules, seed),
		PlayerToEngine: make(map[uuid.UUID]engine.PlayerID),
		EngineToPlayer: make(map[engine.PlayerID]uuid.UUID),
		lastTurn:       engine.NoPlayer,
		pubTimeout:     2 * time.Second,
		Log:            logger.WithField("game_id", id),
		Historian:      historian.NopPublisher{},
	}
}

// AddPlayer seats a new player with the given role.
func (g *CoupGame) AddPlayer(name string, role engine.Role) (*Player, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	eid, err := g.Engine.AddPlayer(name, role)
	if err != nil {
		g.Log.WithError(err).WithField("name", name).Warn("player rejected")
		return nil, fmt.Errorf("add player %q: %w", name, err)
	}
	return g.seat(eid), nil
}

// AddRandomPlayer seats a new player with a role drawn from the game seed.
func (g *CoupGame) AddRandomPlayer(name string) (*Player, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	eid, _, err := g.Engine.AddRandomPlayer(name)
	if err != nil {
		g.Log.WithError(err).WithField("name", name).Warn("player rejected")
		return nil, fmt.Errorf("add player %q: %w", name, err)
	}
	return g.seat(eid), nil
}

// seat registers the identity mapping for a freshly added engine player.
func (g *CoupGame) seat(eid engine.PlayerID) *Player {
	ep := g.Engine.Player(eid)
	p := &Player{ID: uuid.New(), Name: ep.Name(), Role: ep.Role(), Connected: true}
	g.Players = append(g.Players, p)
	g.PlayerToEngine[p.ID] = eid
	g.EngineToPlayer[eid] = p.ID
	if g.lastTurn == engine.NoPlayer {
		g.lastTurn, _ = g.Engine.CurrentPlayer()
	}

	g.Log.WithFields(logrus.Fields{"player": p.Name, "role": p.Role.String()}).Info("player added")
	g.logAction(p.ID, string(EventPlayerJoin), map[string]interface{}{"name": p.Name, "role": p.Role.String()})
	g.fireEvent(GameEvent{
		Type:    EventPlayerJoin,
		User:    g.eventUser(p.ID),
		Payload: map[string]interface{}{"role": p.Role.String()},
	})
	return p
}

// PlayerByName finds a seated player by display name.
func (g *CoupGame) PlayerByName(name string) (*Player, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.playerByName(name)
}

func (g *CoupGame) playerByName(name string) (*Player, bool) {
	for _, p := range g.Players {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

func (g *CoupGame) getPlayerByID(id uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *CoupGame) eventUser(id uuid.UUID) *EventUser {
	p := g.getPlayerByID(id)
	if p == nil {
		return nil
	}
	return &EventUser{ID: p.ID, Name: p.Name}
}

// currentPlayerID returns the UUID of the player holding the turn.
func (g *CoupGame) currentPlayerID() uuid.UUID {
	eid, ok := g.Engine.CurrentPlayer()
	if !ok {
		return uuid.Nil
	}
	return g.EngineToPlayer[eid]
}

// CurrentPlayer returns the player holding the turn, or nil.
func (g *CoupGame) CurrentPlayer() *Player {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.getPlayerByID(g.currentPlayerID())
}

// Coins returns a player's balance as the engine holds it.
func (g *CoupGame) Coins(playerID uuid.UUID) (int, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	eid, ok := g.PlayerToEngine[playerID]
	if !ok {
		return 0, false
	}
	return g.Engine.Player(eid).Coins(), true
}

// Bank returns the bank balance.
func (g *CoupGame) Bank() int {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine.Bank()
}

// ActivePlayers returns the names of the active players in turn order.
func (g *CoupGame) ActivePlayers() []string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine.Players()
}

// Winner returns the winner's name once the game has ended.
func (g *CoupGame) Winner() (string, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.GameOver {
		return "", false
	}
	name, err := g.Engine.Winner()
	if err != nil {
		return "", false
	}
	return name, true
}

// ActionLog returns the engine's formatted display log.
func (g *CoupGame) ActionLog() []string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine.ActionLog()
}

// HandleDisconnect marks a player disconnected. The engine is not told: a
// disconnected player keeps their seat and their turn.
func (g *CoupGame) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil {
		g.Log.WithField("player_id", playerID).Warn("disconnect for unknown player")
		return
	}
	if !p.Connected {
		return
	}
	p.Connected = false
	g.Log.WithField("player", p.Name).Info("player disconnected")
	g.logAction(playerID, "player_disconnect", nil)
	g.broadcastSyncStateToAll()
}

// HandleReconnect marks a player connected again and sends them the state.
func (g *CoupGame) HandleReconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	p := g.getPlayerByID(playerID)
	if p == nil {
		g.Log.WithField("player_id", playerID).Warn("reconnect for unknown player")
		return
	}
	p.Connected = true
	g.Log.WithField("player", p.Name).Info("player reconnected")
	g.logAction(playerID, "player_reconnect", nil)
	g.sendSyncState(playerID)
}

// CloseVetoWindow stops offering coup vetoes. If only one player remains the
// game ends now.
func (g *CoupGame) CloseVetoWindow() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.GameOver && g.Engine.IsOver() {
		g.EndGame()
	}
}

// EndGame finalises the game and notifies consumers. Assumes lock is held.
func (g *CoupGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true

	winner := uuid.Nil
	if eid, err := g.Engine.WinnerID(); err == nil {
		winner = g.EngineToPlayer[eid]
	}
	entry := g.Log.WithField("winner", winner)
	if p := g.getPlayerByID(winner); p != nil {
		entry = entry.WithField("winner_name", p.Name)
	}
	entry.Info("game over")

	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{
		"winner": winner.String(),
		"bank":   g.Engine.Bank(),
	})
	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		User:    g.eventUser(winner),
		Payload: map[string]interface{}{"log": g.Engine.ActionLog()},
	})
	g.broadcastSyncStateToAll()

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner)
	}
}

// Flush waits for in-flight historian publishes.
func (g *CoupGame) Flush() { g.pubWG.Wait() }

// fireEvent broadcasts to all players. Assumes lock is held.
func (g *CoupGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn == nil {
		return
	}
	g.BroadcastFn(ev)
}

// fireEventToPlayer sends to one connected player. Assumes lock is held.
func (g *CoupGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	if p := g.getPlayerByID(playerID); p != nil && p.Connected {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// sendSyncState sends the observer-specific state to one player.
func (g *CoupGame) sendSyncState(playerID uuid.UUID) {
	state := g.obfuscatedState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}

func (g *CoupGame) broadcastSyncStateToAll() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, p := range g.Players {
		if p.Connected {
			g.sendSyncState(p.ID)
		}
	}
}

// logAction publishes an action record to the historian asynchronously.
// Assumes lock is held.
func (g *CoupGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIdx++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := historian.ActionRecord{
		GameID:        g.ID,
		ActionIndex:   g.actionIdx,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	if g.Historian == nil {
		return
	}

	pub, log, timeout := g.Historian, g.Log, g.pubTimeout
	g.pubWG.Add(1)
	go func(rec historian.ActionRecord) {
		defer g.pubWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := pub.Publish(ctx, rec); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"action_index": rec.ActionIndex,
				"action_type":  rec.ActionType,
			}).Error("failed publishing action")
		}
	}(rec)
}
