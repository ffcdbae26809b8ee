// Package config loads runtime settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MasterYoav/coupGame/engine"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the complete runtime configuration.
type Config struct {
	LogLevel  string `env:"COUP_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"COUP_LOG_FORMAT" envDefault:"text"`

	RedisAddr   string `env:"COUP_REDIS_ADDR"`
	RedisStream string `env:"COUP_REDIS_STREAM" envDefault:"coup:actions"`
	RedisMaxLen int64  `env:"COUP_REDIS_MAXLEN" envDefault:"10000"`

	Seed           uint64 `env:"COUP_SEED"            envDefault:"1"`
	ScenarioFile   string `env:"COUP_SCENARIO_FILE"`
	ScenarioAssert bool   `env:"COUP_SCENARIO_ASSERT" envDefault:"true"`

	Rules RulesConfig `envPrefix:"COUP_RULE_"`
}

// RulesConfig overrides engine.Rules. Defaults match engine.DefaultRules.
type RulesConfig struct {
	StartingBank  int `env:"STARTING_BANK"  envDefault:"50"`
	StartingCoins int `env:"STARTING_COINS" envDefault:"0"`
	MinPlayers    int `env:"MIN_PLAYERS"    envDefault:"2"`
	MaxPlayers    int `env:"MAX_PLAYERS"    envDefault:"6"`
	MandatoryCoup int `env:"MANDATORY_COUP" envDefault:"10"`

	GatherAmount   int `env:"GATHER"          envDefault:"1"`
	TaxAmount      int `env:"TAX"             envDefault:"2"`
	BoostedTax     int `env:"BOOSTED_TAX"     envDefault:"3"`
	BribeCost      int `env:"BRIBE_COST"      envDefault:"4"`
	ArrestAmount   int `env:"ARREST"          envDefault:"1"`
	SanctionCost   int `env:"SANCTION_COST"   envDefault:"3"`
	ArbiterPenalty int `env:"ARBITER_PENALTY" envDefault:"1"`
	CoupCost       int `env:"COUP_COST"       envDefault:"7"`

	InvestCost    int `env:"INVEST_COST"     envDefault:"3"`
	InvestReturn  int `env:"INVEST_RETURN"   envDefault:"6"`
	BlockCoupCost int `env:"BLOCK_COUP_COST" envDefault:"5"`

	SustainerThreshold   int `env:"SUSTAINER_THRESHOLD"   envDefault:"3"`
	SustainerBonus       int `env:"SUSTAINER_BONUS"       envDefault:"1"`
	SustainerPenalty     int `env:"SUSTAINER_PENALTY"     envDefault:"2"`
	InvestorCompensation int `env:"INVESTOR_COMPENSATION" envDefault:"1"`
	DefenderRefund       int `env:"DEFENDER_REFUND"       envDefault:"1"`
}

// Load reads the given .env files (missing files are skipped), overlays the
// process environment and parses the result. Process variables win over
// file entries.
func Load(files ...string) (Config, error) {
	vars := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", f, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	return parse(vars)
}

func parse(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid COUP_LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	r := c.Rules
	if r.MinPlayers < 2 {
		return fmt.Errorf("invalid COUP_RULE_MIN_PLAYERS %d: need at least 2", r.MinPlayers)
	}
	if r.MaxPlayers < r.MinPlayers {
		return fmt.Errorf("invalid COUP_RULE_MAX_PLAYERS %d: below minimum %d", r.MaxPlayers, r.MinPlayers)
	}
	if r.CoupCost <= 0 {
		return fmt.Errorf("invalid COUP_RULE_COUP_COST %d", r.CoupCost)
	}
	return nil
}

// EngineRules converts the rule overrides to engine.Rules.
func (c Config) EngineRules() engine.Rules {
	r := c.Rules
	return engine.Rules{
		StartingBank:         r.StartingBank,
		StartingCoins:        r.StartingCoins,
		MinPlayers:           r.MinPlayers,
		MaxPlayers:           r.MaxPlayers,
		MandatoryCoup:        r.MandatoryCoup,
		GatherAmount:         r.GatherAmount,
		TaxAmount:            r.TaxAmount,
		BoostedTax:           r.BoostedTax,
		BribeCost:            r.BribeCost,
		ArrestAmount:         r.ArrestAmount,
		SanctionCost:         r.SanctionCost,
		ArbiterPenalty:       r.ArbiterPenalty,
		CoupCost:             r.CoupCost,
		InvestCost:           r.InvestCost,
		InvestReturn:         r.InvestReturn,
		BlockCoupCost:        r.BlockCoupCost,
		SustainerThreshold:   r.SustainerThreshold,
		SustainerBonus:       r.SustainerBonus,
		SustainerPenalty:     r.SustainerPenalty,
		InvestorCompensation: r.InvestorCompensation,
		DefenderRefund:       r.DefenderRefund,
	}
}
