// Package ctl implements the deedctl command-line tool: trust grant
// administration, session status, and direct deed lookups that bypass the
// message channel.
package ctl

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/msalhab/deedbridge/internal/credential"
	"github.com/msalhab/deedbridge/internal/deeds"
	"github.com/msalhab/deedbridge/internal/host/config"
	"github.com/msalhab/deedbridge/internal/logging"
	"github.com/msalhab/deedbridge/internal/search"
	"github.com/msalhab/deedbridge/internal/trust"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	store        *trust.Store
	db           *sql.DB
	validator    *search.Validator
	orchestrator *deeds.Orchestrator
	credentials  credential.Provider
	out          io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr)

	repo, db, err := trust.OpenRepository(ctx, cfg.TrustDSN)
	if err != nil {
		return nil, fmt.Errorf("trust db init error: %w", err)
	}

	return &App{
		config:       cfg,
		logger:       logger,
		store:        trust.NewStore(repo, logger),
		db:           db,
		validator:    search.NewValidator(cfg.MaxDeedNumbers),
		orchestrator: deeds.NewOrchestrator(deeds.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout), logger),
		credentials:  credential.NewSessionProvider(cfg.SessionTokenPath),
		out:          os.Stdout,
	}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes one subcommand and returns its error.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return nil
	}

	switch args[0] {
	case "approvals":
		return a.runApprovals(ctx, args[1:])
	case "status":
		return a.runStatus(ctx)
	case "lookup":
		return a.runLookup(ctx, args[1:])
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func (a *App) usage() {
	fmt.Fprintln(a.out, `Usage: deedctl <command>

Commands:
  approvals list              list approved origins
  approvals revoke <origin>   revoke one origin
  approvals clear             revoke every origin
  status                      show portal session status
  lookup [flags]              fetch deed records directly (see lookup -h)`)
}
