// Package coupsim runs a Lua scenario headlessly and prints the action log.
package coupsim

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/MasterYoav/coupGame/internal/config"
	"github.com/MasterYoav/coupGame/internal/historian"
	"github.com/MasterYoav/coupGame/internal/logging"
	"github.com/MasterYoav/coupGame/internal/scenario"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ParseConfig loads .env files and the environment, then lets flags override.
func ParseConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return config.Config{}, err
	}

	fs.StringVar(&cfg.ScenarioFile, "scenario", cfg.ScenarioFile, "path to scenario lua file")
	fs.BoolVar(&cfg.ScenarioAssert, "assert", cfg.ScenarioAssert, "stop at the first failed step (disable to log failures)")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for random role assignment")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the action stream (empty disables it)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	if fs.NArg() > 0 && cfg.ScenarioFile == "" {
		cfg.ScenarioFile = fs.Arg(0)
	}
	return cfg, nil
}

// Run plays the configured scenario, writing the action log to out and logs
// to errOut.
func Run(ctx context.Context, cfg config.Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.ScenarioFile == "" {
		return errors.New("scenario path is required")
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	logger.SetOutput(errOut)

	pub, closePub, err := openHistorian(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closePub()

	sc, err := scenario.LoadFile(cfg.ScenarioFile)
	if err != nil {
		return err
	}
	runner := &scenario.Runner{
		Rules:     cfg.EngineRules(),
		Seed:      cfg.Seed,
		Logger:    logger,
		Historian: pub,
		Assert:    cfg.ScenarioAssert,
	}
	res, runErr := runner.Run(sc)

	fmt.Fprintf(out, "== %s ==\n", res.Name)
	for _, line := range res.Game.ActionLog() {
		fmt.Fprintln(out, line)
	}
	if winner, ok := res.Game.Winner(); ok {
		fmt.Fprintf(out, "winner: %s\n", winner)
	}
	if runErr != nil {
		return runErr
	}
	if !res.Passed() {
		for _, f := range res.Failures {
			fmt.Fprintf(out, "FAIL %v\n", f)
		}
		return fmt.Errorf("%d steps failed", len(res.Failures))
	}
	fmt.Fprintln(out, "ok")
	return nil
}

// openHistorian connects to Redis when an address is configured.
func openHistorian(ctx context.Context, cfg config.Config, logger *logrus.Logger) (historian.Publisher, func(), error) {
	if cfg.RedisAddr == "" {
		return historian.NopPublisher{}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	logger.WithFields(logrus.Fields{"addr": cfg.RedisAddr, "stream": cfg.RedisStream}).Info("publishing actions to redis")
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.WithError(err).Warn("redis close")
		}
	}
	return historian.NewRedisPublisher(rdb, cfg.RedisStream, cfg.RedisMaxLen), closeFn, nil
}
