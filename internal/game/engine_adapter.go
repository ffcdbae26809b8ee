// internal/game/engine_adapter.go
package game

import (
	"errors"
	"fmt"

	"github.com/MasterYoav/coupGame/engine"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// GameAction is an action request from a player. Target is uuid.Nil for
// untargeted actions.
type GameAction struct {
	ActionType string    `json:"type"`
	Target     uuid.UUID `json:"target,omitempty"`
}

// ErrUnknownAction is returned for action types no route handles.
var ErrUnknownAction = errors.New("unknown action type")

// ErrGameOver is returned for actions sent after the game ended.
var ErrGameOver = errors.New("game is over")

// actionRoutes maps wire action types to engine kinds.
var actionRoutes = map[string]engine.ActionKind{
	"action_gather":       engine.ActionGather,
	"action_tax":          engine.ActionTax,
	"action_bribe":        engine.ActionBribe,
	"action_arrest":       engine.ActionArrest,
	"action_sanction":     engine.ActionSanction,
	"action_coup":         engine.ActionCoup,
	"action_invest":       engine.ActionInvest,
	"action_block_tax":    engine.ActionBlockTax,
	"action_block_arrest": engine.ActionBlockArrest,
	"action_inspect":      engine.ActionInspect,
	"action_block_coup":   engine.ActionBlockCoup,
	"action_cancel_bribe": engine.ActionCancelBribe,
	"action_cancel_tax":   engine.ActionCancelTax,
}

// ActionType returns the wire name for an engine kind.
func ActionType(kind engine.ActionKind) string {
	for name, k := range actionRoutes {
		if k == kind {
			return name
		}
	}
	return ""
}

// HandlePlayerAction validates and applies one action, then emits the events
// it caused. Errors from the engine wrap engine.ErrIllegalAction.
func (g *CoupGame) HandlePlayerAction(playerID uuid.UUID, action GameAction) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	entry := g.Log.WithFields(logrus.Fields{"player_id": playerID, "action": action.ActionType})
	if g.GameOver {
		entry.Debug("action ignored, game over")
		return ErrGameOver
	}
	eid, ok := g.PlayerToEngine[playerID]
	if !ok {
		entry.Warn("action from unknown player")
		return fmt.Errorf("%s: %w", action.ActionType, engine.ErrNotInGame)
	}
	kind, ok := actionRoutes[action.ActionType]
	if !ok {
		entry.Warn("unknown action type")
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateActionFail,
			Action:  action.ActionType,
			Payload: map[string]interface{}{"message": "Unknown action type."},
		})
		return fmt.Errorf("%q: %w", action.ActionType, ErrUnknownAction)
	}

	target := engine.NoPlayer
	if kind.Targeted() {
		t, ok := g.PlayerToEngine[action.Target]
		if !ok {
			err := fmt.Errorf("%w: unknown target %s", engine.ErrInvalidTarget, action.Target)
			g.failAction(playerID, action, err)
			return err
		}
		target = t
	}

	if kind == engine.ActionInspect {
		return g.inspect(playerID, eid, action, target)
	}

	wasActive := g.activeSet()
	if err := g.Engine.Apply(engine.Action{Kind: kind, Actor: eid, Target: target}); err != nil {
		g.failAction(playerID, action, err)
		return err
	}
	g.afterAction(playerID, action, kind, target, wasActive)
	return nil
}

// inspect reveals a balance privately. Nothing public happens.
func (g *CoupGame) inspect(playerID uuid.UUID, eid engine.PlayerID, action GameAction, target engine.PlayerID) error {
	coins, err := g.Engine.Inspect(eid, target)
	if err != nil {
		g.failAction(playerID, action, err)
		return err
	}
	g.logAction(playerID, action.ActionType, map[string]interface{}{"target": action.Target.String()})
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateInspect,
		Target:  g.eventUser(action.Target),
		Payload: map[string]interface{}{"coins": coins},
	})
	return nil
}

func (g *CoupGame) failAction(playerID uuid.UUID, action GameAction, err error) {
	g.Log.WithError(err).WithFields(logrus.Fields{
		"player_id": playerID,
		"action":    action.ActionType,
	}).Info("action rejected")
	g.logAction(playerID, action.ActionType, map[string]interface{}{
		"success": false,
		"reason":  err.Error(),
	})
	g.fireEventToPlayer(playerID, GameEvent{
		Type:    EventPrivateActionFail,
		Action:  action.ActionType,
		Payload: map[string]interface{}{"message": err.Error()},
	})
}

// afterAction emits the events for a successful action: the action itself,
// roster changes, veto offers, the turn change and finally game end.
func (g *CoupGame) afterAction(playerID uuid.UUID, action GameAction, kind engine.ActionKind, target engine.PlayerID, wasActive map[engine.PlayerID]bool) {
	targetID := uuid.Nil
	if target != engine.NoPlayer {
		targetID = g.EngineToPlayer[target]
	}
	payload := map[string]interface{}{"success": true}
	if targetID != uuid.Nil {
		payload["target"] = targetID.String()
	}
	g.Log.WithFields(logrus.Fields{
		"player":    g.getPlayerByID(playerID).Name,
		"action":    action.ActionType,
		"target_id": targetID,
	}).Info("action applied")
	g.logAction(playerID, action.ActionType, payload)
	g.fireEvent(GameEvent{
		Type:   EventPlayerAction,
		User:   g.eventUser(playerID),
		Target: g.eventUser(targetID),
		Action: action.ActionType,
	})

	for _, eid := range g.Engine.Roster() {
		if !wasActive[eid] {
			g.Log.WithField("player", g.Engine.Player(eid).Name()).Info("player reinstated")
			g.fireEvent(GameEvent{Type: EventPlayerReinstated, User: g.eventUser(g.EngineToPlayer[eid])})
		}
		delete(wasActive, eid)
	}
	for eid := range wasActive {
		g.Log.WithField("player", g.Engine.Player(eid).Name()).Info("player eliminated")
		g.fireEvent(GameEvent{Type: EventPlayerEliminated, User: g.eventUser(g.EngineToPlayer[eid])})
	}

	g.offerVeto(kind, g.PlayerToEngine[playerID], target)

	if cur, ok := g.Engine.CurrentPlayer(); ok && cur != g.lastTurn {
		g.lastTurn = cur
		g.fireEvent(GameEvent{Type: EventGamePlayerTurn, User: g.eventUser(g.EngineToPlayer[cur])})
	}
	g.broadcastSyncStateToAll()

	if g.Engine.IsOver() && !g.coupVetoPending() {
		g.EndGame()
	}
}

// offerVeto announces who may cancel the action just taken, if anyone.
func (g *CoupGame) offerVeto(kind engine.ActionKind, actor, target engine.PlayerID) {
	var (
		vetoers []engine.PlayerID
		veto    engine.ActionKind
		subject = actor
	)
	switch kind {
	case engine.ActionCoup:
		vetoers, veto, subject = g.Engine.CoupBlockers(target), engine.ActionBlockCoup, target
	case engine.ActionBribe:
		vetoers, veto = g.Engine.BribeCancellers(actor), engine.ActionCancelBribe
	case engine.ActionTax:
		vetoers, veto = g.Engine.TaxCancellers(actor), engine.ActionCancelTax
	default:
		return
	}
	if len(vetoers) == 0 {
		return
	}
	ids := make([]string, 0, len(vetoers))
	for _, v := range vetoers {
		ids = append(ids, g.EngineToPlayer[v].String())
	}
	g.Log.WithFields(logrus.Fields{"veto": ActionType(veto), "eligible": len(ids)}).Debug("veto window open")
	g.fireEvent(GameEvent{
		Type:   EventVetoWindow,
		User:   g.eventUser(g.EngineToPlayer[subject]),
		Action: ActionType(veto),
		Payload: map[string]interface{}{
			"eligible": ids,
		},
	})
}

// coupVetoPending reports whether any eliminated player could still be saved.
func (g *CoupGame) coupVetoPending() bool {
	for _, p := range g.Engine.AllPlayers() {
		if !g.Engine.Active(p.ID()) && len(g.Engine.CoupBlockers(p.ID())) > 0 {
			return true
		}
	}
	return false
}

func (g *CoupGame) activeSet() map[engine.PlayerID]bool {
	set := make(map[engine.PlayerID]bool)
	for _, eid := range g.Engine.Roster() {
		set[eid] = true
	}
	return set
}

// LegalActions lists the wire action types a player may send right now.
func (g *CoupGame) LegalActions(playerID uuid.UUID) []string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	eid, ok := g.PlayerToEngine[playerID]
	if !ok || g.GameOver {
		return nil
	}
	kinds := g.Engine.LegalActions(eid).List()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, ActionType(k))
	}
	return out
}
