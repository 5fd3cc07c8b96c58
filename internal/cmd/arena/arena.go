// Package arena parses arena command flags and composes transport entrypoints.
package arena

import (
	"context"
	"flag"
	"fmt"
	"time"

	server "github.com/louisbranch/stanks.space/internal/arena/app"
	"github.com/louisbranch/stanks.space/internal/arena/vote"
	entrypoint "github.com/louisbranch/stanks.space/internal/platform/cmd"
)

// Config holds arena command configuration.
type Config struct {
	HTTPAddr      string        `env:"STANKS_SPACE_ARENA_HTTP_ADDR"      envDefault:":8080"`
	StoragePath   string        `env:"STANKS_SPACE_ARENA_STORAGE_PATH"`
	MinPlayers    int           `env:"STANKS_SPACE_ARENA_MIN_PLAYERS"    envDefault:"17"`
	RoundDuration time.Duration `env:"STANKS_SPACE_ARENA_ROUND_DURATION" envDefault:"5m"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "arena HTTP listen address")
	fs.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "SQLite archive path (empty keeps games in memory)")
	fs.IntVar(&cfg.MinPlayers, "min-players", cfg.MinPlayers, "players required before the first round")
	fs.DurationVar(&cfg.RoundDuration, "round-duration", cfg.RoundDuration, "round deadline length")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the arena app and serves it until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceArena, func(context.Context) error {
		verifier, err := voteVerifier()
		if err != nil {
			return fmt.Errorf("load vote verifier: %w", err)
		}
		if err := server.Run(ctx, server.Config{
			HTTPAddr:      cfg.HTTPAddr,
			StoragePath:   cfg.StoragePath,
			MinPlayers:    cfg.MinPlayers,
			RoundDuration: cfg.RoundDuration,
			VoteVerifier:  verifier,
		}); err != nil {
			return fmt.Errorf("serve arena: %w", err)
		}
		return nil
	})
}

// voteVerifier loads the grant verifier when its environment is set and
// falls back to the accept-all stub otherwise.
func voteVerifier() (vote.Verifier, error) {
	grantConfig, ok, err := vote.LoadGrantConfigFromEnv(nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return vote.AcceptAll{}, nil
	}
	return vote.NewGrantVerifier(grantConfig)
}
