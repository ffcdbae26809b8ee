package coupsim

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/MasterYoav/coupGame/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const coupScript = `
local s = Scenario.new("quick coup")
s:player("Alice", "commoner")
s:player("Bob", "commoner")
for _ = 1, 7 do
  s:gather("Alice")
  s:gather("Bob")
end
s:coup("Alice", "Bob")
s:expect_winner("Alice")
return s
`

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.lua")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func baseConfig(t *testing.T, path string) config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.ScenarioFile = path
	cfg.RedisAddr = ""
	cfg.LogLevel = "error"
	return cfg
}

func TestParseConfigFlags(t *testing.T) {
	fs := flag.NewFlagSet("coupsim", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-seed", "9", "-assert=false", "game.lua"})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.False(t, cfg.ScenarioAssert)
	assert.Equal(t, "game.lua", cfg.ScenarioFile)
}

func TestRunPrintsLog(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run(context.Background(), baseConfig(t, writeScript(t, coupScript)), &out, &errOut)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "== quick coup ==")
	assert.Contains(t, out.String(), "Alice,Gather,Succeeded")
	assert.Contains(t, out.String(), "Alice,Coup for Bob,Succeeded")
	assert.Contains(t, out.String(), "winner: Alice")
	assert.Contains(t, out.String(), "ok")
}

func TestRunReportsFailures(t *testing.T) {
	script := `
local s = Scenario.new("bad")
s:player("Alice", "commoner")
s:player("Bob", "commoner")
s:gather("Bob")
return s
`
	cfg := baseConfig(t, writeScript(t, script))

	var out bytes.Buffer
	err := Run(context.Background(), cfg, &out, nil)
	assert.ErrorContains(t, err, "not your turn")

	cfg.ScenarioAssert = false
	out.Reset()
	err = Run(context.Background(), cfg, &out, nil)
	assert.ErrorContains(t, err, "1 steps failed")
	assert.Contains(t, out.String(), "FAIL step 3 (gather)")
}

func TestRunRequiresScenario(t *testing.T) {
	err := Run(context.Background(), config.Config{}, nil, nil)
	assert.ErrorContains(t, err, "scenario path is required")
}
