// Package scenario loads scripted games written in Lua and runs them against
// a CoupGame.
//
// A script builds a Scenario and returns it:
//
//	local s = Scenario.new("defender block")
//	s:player("Alice", "commoner")
//	s:player("Bob", "defender")
//	s:gather("Alice")
//	s:coup("Bob", "Alice"):expect_error("not your turn")
//	s:expect_coins("Alice", 1)
//	return s
package scenario

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const (
	scenarioTypeName = "scenario"
	stepTypeName     = "scenario_step"
)

// Scenario is an ordered list of steps.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted instruction. Kind is either an action name
// ("gather", "block_coup"), "player", "close_veto" or an "expect_*" check.
type Step struct {
	Kind string
	Args map[string]any
}

// stepRef is returned to scripts by action methods so they can attach
// expectations to the step just added.
type stepRef struct {
	scenario  *Scenario
	stepIndex int
}

// ErrNoScenario is returned when a script does not return a Scenario.
var ErrNoScenario = errors.New("scenario script must return Scenario")

// LoadFile runs the script at path and returns the Scenario it builds. An
// unnamed scenario takes the file's base name.
func LoadFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua %s: %w", path, err)
	}
	sc, err := run(state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// LoadString runs an in-memory script. name labels the chunk in Lua errors.
func LoadString(name, src string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadBuffer(state, src, name, ""); err != nil {
		return nil, fmt.Errorf("load lua %s: %w", name, err)
	}
	sc, err := run(state)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if strings.TrimSpace(sc.Name) == "" {
		sc.Name = name
	}
	return sc, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)
	return state
}

// run executes the loaded chunk and extracts the returned Scenario.
func run(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, ErrNoScenario
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	sc, ok := ud.(*Scenario)
	if !ok || sc == nil {
		return nil, ErrNoScenario
	}
	return sc, nil
}

func registerLuaTypes(state *lua.State) {
	registerType(state, scenarioTypeName, scenarioMethods)
	registerType(state, stepTypeName, stepMethods)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

func registerType(state *lua.State, name string, methods []lua.RegistryFunction) {
	lua.NewMetaTable(state, name)
	state.NewTable()
	lua.SetFunctions(state, methods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "player", Function: scenarioPlayer},
	{Name: "close_veto", Function: scenarioCloseVeto},

	{Name: "gather", Function: untargeted("gather")},
	{Name: "tax", Function: untargeted("tax")},
	{Name: "bribe", Function: untargeted("bribe")},
	{Name: "invest", Function: untargeted("invest")},

	{Name: "arrest", Function: targeted("arrest")},
	{Name: "sanction", Function: targeted("sanction")},
	{Name: "coup", Function: targeted("coup")},
	{Name: "block_tax", Function: targeted("block_tax")},
	{Name: "block_arrest", Function: targeted("block_arrest")},
	{Name: "inspect", Function: targeted("inspect")},
	{Name: "block_coup", Function: targeted("block_coup")},
	{Name: "cancel_bribe", Function: targeted("cancel_bribe")},
	{Name: "cancel_tax", Function: targeted("cancel_tax")},

	{Name: "expect_coins", Function: scenarioExpectCoins},
	{Name: "expect_turn", Function: scenarioExpectTurn},
	{Name: "expect_players", Function: scenarioExpectPlayers},
	{Name: "expect_winner", Function: scenarioExpectWinner},
	{Name: "expect_bank", Function: scenarioExpectBank},
}

func scenarioPlayer(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	role := lua.OptString(state, 3, "")
	appendStep(sc, "player", map[string]any{"name": name, "role": role})
	return 0
}

func scenarioCloseVeto(state *lua.State) int {
	sc := checkScenario(state)
	appendStep(sc, "close_veto", nil)
	return 0
}

func untargeted(kind string) lua.Function {
	return func(state *lua.State) int {
		sc := checkScenario(state)
		actor := lua.CheckString(state, 2)
		return pushStepRef(state, sc, appendStep(sc, kind, map[string]any{"actor": actor}))
	}
}

func targeted(kind string) lua.Function {
	return func(state *lua.State) int {
		sc := checkScenario(state)
		actor := lua.CheckString(state, 2)
		target := lua.CheckString(state, 3)
		return pushStepRef(state, sc, appendStep(sc, kind, map[string]any{"actor": actor, "target": target}))
	}
}

func scenarioExpectCoins(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	coins := lua.CheckInteger(state, 3)
	appendStep(sc, "expect_coins", map[string]any{"player": name, "coins": coins})
	return 0
}

func scenarioExpectTurn(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(sc, "expect_turn", map[string]any{"player": name})
	return 0
}

func scenarioExpectPlayers(state *lua.State) int {
	sc := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	names, ok := tableToGo(state, 2).([]any)
	if !ok {
		lua.ArgumentError(state, 2, "list of player names expected")
		return 0
	}
	appendStep(sc, "expect_players", map[string]any{"players": names})
	return 0
}

func scenarioExpectWinner(state *lua.State) int {
	sc := checkScenario(state)
	name := lua.CheckString(state, 2)
	appendStep(sc, "expect_winner", map[string]any{"player": name})
	return 0
}

func scenarioExpectBank(state *lua.State) int {
	sc := checkScenario(state)
	amount := lua.CheckInteger(state, 2)
	appendStep(sc, "expect_bank", map[string]any{"amount": amount})
	return 0
}

var stepMethods = []lua.RegistryFunction{
	{Name: "expect_error", Function: stepExpectError},
}

// stepExpectError marks the step as expected to fail with an error whose
// message contains the given text.
func stepExpectError(state *lua.State) int {
	ud := lua.CheckUserData(state, 1, stepTypeName)
	ref, ok := ud.(*stepRef)
	if !ok || ref == nil {
		lua.Errorf(state, "invalid step")
		return 0
	}
	want := lua.OptString(state, 2, "")
	if ref.stepIndex < 0 || ref.stepIndex >= len(ref.scenario.Steps) {
		lua.Errorf(state, "step is out of range")
		return 0
	}
	ref.scenario.Steps[ref.stepIndex].Args["expect_error"] = want
	ref.scenario.Steps[ref.stepIndex].Args["fails"] = true
	return 0
}

func pushStepRef(state *lua.State, sc *Scenario, index int) int {
	state.PushUserData(&stepRef{scenario: sc, stepIndex: index})
	lua.SetMetaTableNamed(state, stepTypeName)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if sc, ok := ud.(*Scenario); ok && sc != nil {
		return sc
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(sc *Scenario, kind string, data map[string]any) int {
	if sc == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	sc.Steps = append(sc.Steps, Step{Kind: kind, Args: data})
	return len(sc.Steps) - 1
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a Lua sequence to []any and any other table to
// map[string]any.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex, count := 0, 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	output := map[string]any{}
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
