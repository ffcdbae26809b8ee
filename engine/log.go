package engine

import "strings"

// RegisterAction records an action. Successful actions enter the undo log;
// every action, failed or not, is appended to the display log as
// "<actor>,<Kind>[ for <target>],Succeeded|Failed".
func (g *Game) RegisterAction(actor PlayerID, kind ActionKind, target PlayerID, success bool) {
	g.record(actor, kind, target, 0, success)
}

func (g *Game) record(actor PlayerID, kind ActionKind, target PlayerID, amount int, success bool) {
	if success {
		g.log = append(g.log, ActionRecord{
			Actor:  actor,
			Kind:   kind,
			Target: target,
			Turn:   g.turnNumber,
			Amount: amount,
		})
	}
	g.display(actor, kind, target, success)
}

// display appends a line to the display log only.
func (g *Game) display(actor PlayerID, kind ActionKind, target PlayerID, success bool) {
	var b strings.Builder
	if p := g.Player(actor); p != nil {
		b.WriteString(p.name)
	}
	b.WriteByte(',')
	b.WriteString(kind.String())
	if t := g.Player(target); t != nil {
		b.WriteString(" for ")
		b.WriteString(t.name)
	}
	if success {
		b.WriteString(",Succeeded")
	} else {
		b.WriteString(",Failed")
	}
	g.displayLog = append(g.displayLog, b.String())
}

// ActionLog returns the formatted display log. It carries no engine
// semantics.
func (g *Game) ActionLog() []string {
	out := make([]string, len(g.displayLog))
	copy(out, g.displayLog)
	return out
}

// Records returns a copy of the undo log, oldest first.
func (g *Game) Records() []ActionRecord {
	out := make([]ActionRecord, len(g.log))
	copy(out, g.log)
	return out
}

// LastAction returns the most recent record of kind by actor still inside
// the undo window.
func (g *Game) LastAction(actor PlayerID, kind ActionKind) (ActionRecord, bool) {
	i := g.findLast(func(r *ActionRecord) bool { return r.Actor == actor && r.Kind == kind })
	if i < 0 {
		return ActionRecord{}, false
	}
	return g.log[i], true
}

// CancelableCoup reports whether a coup against target can still be undone.
func (g *Game) CancelableCoup(target PlayerID) bool { return g.lastCoupAgainst(target) >= 0 }

// CancelableBribe reports whether briber's last bribe can still be cancelled.
func (g *Game) CancelableBribe(briber PlayerID) bool {
	_, ok := g.LastAction(briber, ActionBribe)
	return ok
}

// CancelableTax reports whether taxer's last tax can still be cancelled.
func (g *Game) CancelableTax(taxer PlayerID) bool {
	_, ok := g.LastAction(taxer, ActionTax)
	return ok
}

func (g *Game) lastCoupAgainst(target PlayerID) int {
	return g.findLast(func(r *ActionRecord) bool { return r.Kind == ActionCoup && r.Target == target })
}

func (g *Game) findLast(match func(*ActionRecord) bool) int {
	for i := len(g.log) - 1; i >= 0; i-- {
		if match(&g.log[i]) {
			return i
		}
	}
	return -1
}

func (g *Game) removeRecord(i int) {
	g.log = append(g.log[:i], g.log[i+1:]...)
}

// pruneLog drops records older than one full rotation.
func (g *Game) pruneLog() {
	n := len(g.roster)
	kept := g.log[:0]
	for _, r := range g.log {
		if g.turnNumber-r.Turn <= n {
			kept = append(kept, r)
		}
	}
	g.log = kept
}
