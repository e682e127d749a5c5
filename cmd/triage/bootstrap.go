package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/triagekit/triage"
	"github.com/triagekit/triage/internal/config"
	"github.com/triagekit/triage/internal/logging"
	"github.com/triagekit/triage/pkg/adapters/file"
	"github.com/triagekit/triage/pkg/adapters/memory"
	"github.com/triagekit/triage/pkg/adapters/redis"
	"github.com/triagekit/triage/pkg/chain"
	"github.com/triagekit/triage/pkg/command"
	"github.com/triagekit/triage/pkg/domain"
	"github.com/triagekit/triage/pkg/ports"
	"github.com/triagekit/triage/pkg/registry"
)

// loadConfig reads the config file named by the persistent --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(parseLevel(cfg.Log.Level), logging.Format(cfg.Log.Format))
}

// buildEngine wires the full engine from configuration: store, optional
// distributed locker, chain (from the YAML definition when configured)
// and the built-in command set.
func buildEngine(cfg *config.Config, logger *slog.Logger, hooks domain.LifecycleHooks) (*triage.Engine, func(), error) {
	cleanup := func() {}

	var store ports.HistoryStore
	var locker ports.DistributedLocker
	switch cfg.Storage.Backend {
	case "redis":
		rs := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(time.Duration(cfg.Redis.TTLSeconds)*time.Second))
		store = rs
		locker = redis.NewLocker(rs.Client(), "triage:lock:")
		cleanup = func() { _ = rs.Close() }
	case "memory":
		store = memory.NewStore()
	default:
		store = file.NewStore(cfg.Storage.Path)
	}

	opts := []triage.Option{
		triage.WithLogger(logger),
		triage.WithStore(store),
		triage.WithRegistry(builtinRegistry()),
		triage.WithLifecycleHooks(hooks),
	}
	if locker != nil {
		opts = append(opts, triage.WithLocker(locker))
	}

	spec, err := chainSpec(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	c, err := spec.BuildChain([]chain.Option{
		chain.WithLogger(logger),
		chain.WithLifecycleHooks(hooks),
	}, chain.Recover())
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("build chain: %w", err)
	}
	opts = append(opts, triage.WithChain(c))

	eng, err := triage.New(opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return eng, cleanup, nil
}

// defaultChainSpec is the fallback escalation chain used when no chain
// file is configured.
func defaultChainSpec() *file.ChainSpec {
	return &file.ChainSpec{
		Handlers: []file.HandlerSpec{
			{Name: "junior", MaxLevel: 1, Reply: "resolved at tier 1"},
			{Name: "senior", MaxLevel: 3, Reply: "resolved at tier 2"},
			{Name: "manager", MaxLevel: 5, Reply: "resolved by management"},
		},
	}
}

// chainSpec resolves the chain definition: the configured YAML file when
// present, the built-in tiers otherwise.
func chainSpec(cfg *config.Config) (*file.ChainSpec, error) {
	if cfg.Chain.File == "" {
		return defaultChainSpec(), nil
	}
	spec, err := file.LoadChainSpec(cfg.Chain.File)
	if err != nil {
		return nil, fmt.Errorf("load chain %s: %w", cfg.Chain.File, err)
	}
	return spec, nil
}

// builtinRegistry registers the commands the CLI ships with. They operate
// on files so undo keeps working across process restarts.
func builtinRegistry() *registry.Registry {
	reg := registry.NewRegistry()

	reg.Register("note.append", func(args map[string]any) (ports.Command, error) {
		var params struct {
			Path string `json:"path"`
			Text string `json:"text"`
		}
		if err := registry.DecodeArgs(args, &params); err != nil {
			return nil, err
		}
		if params.Path == "" {
			return nil, fmt.Errorf("note.append: path is required")
		}
		return command.Func("note.append",
			func(context.Context) error { return appendLine(params.Path, params.Text) },
			func(context.Context) error { return removeLastLine(params.Path, params.Text) },
		), nil
	})

	return reg
}

func appendLine(path, text string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, text)
	return err
}

// removeLastLine drops the final line of the file if it matches the text
// that was appended. A mismatch means the file changed underneath us, so
// the inverse refuses rather than destroying someone else's line.
func removeLastLine(path, text string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return err
	}
	f.Close()

	if len(lines) == 0 || lines[len(lines)-1] != text {
		return fmt.Errorf("note.append: last line of %s no longer matches", path)
	}
	lines = lines[:len(lines)-1]

	out := strings.Join(lines, "\n")
	if len(lines) > 0 {
		out += "\n"
	}
	return os.WriteFile(path, []byte(out), 0o644)
}
