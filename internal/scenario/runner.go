package scenario

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MasterYoav/coupGame/engine"
	"github.com/MasterYoav/coupGame/internal/game"
	"github.com/MasterYoav/coupGame/internal/historian"
	"github.com/sirupsen/logrus"
)

// ErrExpectation marks a step whose outcome differed from the script.
var ErrExpectation = errors.New("expectation failed")

// Runner plays scenarios on fresh games.
type Runner struct {
	Rules     engine.Rules
	Seed      uint64
	Logger    *logrus.Logger
	Historian historian.Publisher

	// Assert stops at the first failed step. Otherwise failures are logged
	// and collected in the Result.
	Assert bool
}

// Result is the outcome of one scenario run.
type Result struct {
	Name     string
	Game     *game.CoupGame
	Failures []error
}

// Passed reports whether every step behaved as scripted.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run plays sc on a new game. With Assert set the first failure is returned
// as the error; the Result is returned either way.
func (r *Runner) Run(sc *Scenario) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	g := game.NewCoupGame(r.Rules, r.Seed, logger)
	if r.Historian != nil {
		g.Historian = r.Historian
	}
	res := &Result{Name: sc.Name, Game: g}
	log := logger.WithFields(logrus.Fields{"scenario": sc.Name, "game_id": g.ID})
	log.WithField("steps", len(sc.Steps)).Info("scenario started")

	defer g.Flush()
	for i, step := range sc.Steps {
		err := r.step(g, step)
		if err == nil {
			continue
		}
		err = fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		res.Failures = append(res.Failures, err)
		if r.Assert {
			log.WithError(err).Error("scenario failed")
			return res, err
		}
		log.WithError(err).Warn("step failed")
	}
	log.WithField("failures", len(res.Failures)).Info("scenario finished")
	return res, nil
}

func (r *Runner) step(g *game.CoupGame, step Step) error {
	switch step.Kind {
	case "player":
		return addPlayer(g, str(step.Args, "name"), str(step.Args, "role"))
	case "close_veto":
		g.CloseVetoWindow()
		return nil
	case "expect_coins":
		return expectCoins(g, str(step.Args, "player"), integer(step.Args, "coins"))
	case "expect_turn":
		want := str(step.Args, "player")
		got := ""
		if p := g.CurrentPlayer(); p != nil {
			got = p.Name
		}
		if got != want {
			return fmt.Errorf("%w: turn is %q, want %q", ErrExpectation, got, want)
		}
		return nil
	case "expect_players":
		want := names(step.Args["players"])
		if got := g.ActivePlayers(); !slices.Equal(got, want) {
			return fmt.Errorf("%w: players %v, want %v", ErrExpectation, got, want)
		}
		return nil
	case "expect_winner":
		want := str(step.Args, "player")
		got, ok := g.Winner()
		if !ok {
			return fmt.Errorf("%w: game not over, want winner %q", ErrExpectation, want)
		}
		if got != want {
			return fmt.Errorf("%w: winner %q, want %q", ErrExpectation, got, want)
		}
		return nil
	case "expect_bank":
		if got, want := g.Bank(), integer(step.Args, "amount"); got != want {
			return fmt.Errorf("%w: bank %d, want %d", ErrExpectation, got, want)
		}
		return nil
	default:
		return playAction(g, step)
	}
}

func addPlayer(g *game.CoupGame, name, roleName string) error {
	if roleName == "" {
		_, err := g.AddRandomPlayer(name)
		return err
	}
	role, ok := engine.ParseRole(roleName)
	if !ok {
		return fmt.Errorf("unknown role %q", roleName)
	}
	_, err := g.AddPlayer(name, role)
	return err
}

func playAction(g *game.CoupGame, step Step) error {
	actorName := str(step.Args, "actor")
	actor, ok := g.PlayerByName(actorName)
	if !ok {
		return fmt.Errorf("unknown player %q", actorName)
	}
	action := game.GameAction{ActionType: "action_" + step.Kind}
	if targetName := str(step.Args, "target"); targetName != "" {
		target, ok := g.PlayerByName(targetName)
		if !ok {
			return fmt.Errorf("unknown player %q", targetName)
		}
		action.Target = target.ID
	}

	err := g.HandlePlayerAction(actor.ID, action)
	if fails, _ := step.Args["fails"].(bool); !fails {
		return err
	}
	want := str(step.Args, "expect_error")
	if err == nil {
		return fmt.Errorf("%w: %s succeeded, want error containing %q", ErrExpectation, step.Kind, want)
	}
	if !strings.Contains(err.Error(), want) {
		return fmt.Errorf("%w: error %q does not contain %q", ErrExpectation, err, want)
	}
	return nil
}

func expectCoins(g *game.CoupGame, name string, want int) error {
	p, ok := g.PlayerByName(name)
	if !ok {
		return fmt.Errorf("unknown player %q", name)
	}
	got, _ := g.Coins(p.ID)
	if got != want {
		return fmt.Errorf("%w: %s has %d coins, want %d", ErrExpectation, name, got, want)
	}
	return nil
}

func str(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func integer(args map[string]any, key string) int {
	n, _ := args[key].(int)
	return n
}

func names(v any) []string {
	list, _ := v.([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
