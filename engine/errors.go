package engine

import (
	"errors"
	"fmt"
)

// ErrIllegalAction is the single error kind surfaced by the engine. Every
// reason below wraps it, so callers may match either the broad kind or the
// specific reason with errors.Is.
var ErrIllegalAction = errors.New("illegal game action")

var (
	ErrNotYourTurn       = reason("not your turn")
	ErrInsufficientFunds = reason("insufficient funds")
	ErrMandatoryCoup     = reason("must coup when holding 10 or more coins")
	ErrBlocked           = reason("action is blocked this turn")
	ErrAlreadyBlocked    = reason("target is already blocked")
	ErrRepeatArrest      = reason("cannot arrest the same player twice in a row")
	ErrInvalidTarget     = reason("invalid target")
	ErrNotInGame         = reason("player is not in the game")
	ErrWrongRole         = reason("role cannot perform this action")
	ErrNothingToCancel   = reason("nothing to cancel")
	ErrRosterFull        = reason("roster is full")
	ErrDuplicatePlayer   = reason("player already in game")
	ErrNullPlayer        = reason("malformed player")
	ErrGameInProgress    = reason("game is still ongoing")
	ErrGameStarted       = reason("game has already started")
	ErrNotEnoughPlayers  = reason("not enough players")
	ErrNoPlayers         = reason("no active players")
)

func reason(msg string) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, msg)
}
