package host

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/msalhab/deedbridge/internal/approval"
	"github.com/msalhab/deedbridge/internal/bridge"
	"github.com/msalhab/deedbridge/internal/credential"
	"github.com/msalhab/deedbridge/internal/deeds"
	"github.com/msalhab/deedbridge/internal/export"
	"github.com/msalhab/deedbridge/internal/host/config"
	"github.com/msalhab/deedbridge/internal/logging"
	"github.com/msalhab/deedbridge/internal/search"
	"github.com/msalhab/deedbridge/internal/trust"
)

// App wires the bridge host together: trust store, consent flow, registry
// client and the dispatcher, all speaking framed envelopes over stdio.
type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	routes     *bridge.RouteTable
	dispatcher *bridge.Dispatcher
	conn       *FrameConn
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	// stdout carries the message frames, so logs go to stderr
	logger := logging.NewJSONLogger(os.Stderr)

	repo, db, err := trust.OpenRepository(ctx, cfg.TrustDSN)
	if err != nil {
		return nil, fmt.Errorf("trust db init error: %w", err)
	}

	store := trust.NewStore(repo, logger)
	flow := approval.NewFlow(store, NewTerminalPrompter(), cfg.ApprovalTimeout, cfg.ApprovalDays, logger)
	routes := bridge.NewRouteTable(cfg.RouteTTL, logger)

	dispatcher := bridge.NewDispatcher(bridge.Config{
		Trust:        store,
		Approvals:    flow,
		Validator:    search.NewValidator(cfg.MaxDeedNumbers),
		Orchestrator: deeds.NewOrchestrator(deeds.NewAPIClient(cfg.APIBaseURL, cfg.APITimeout), logger),
		Credentials:  credential.NewSessionProvider(cfg.SessionTokenPath),
		Routes:       routes,
		Exporter:     buildExporter(cfg, logger),
		Logger:       logger,
	})

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		routes:     routes,
		dispatcher: dispatcher,
		conn:       NewFrameConn(os.Stdin, os.Stdout),
	}, nil
}

// buildExporter assembles the configured artifact sinks. Nil means export is
// disabled.
func buildExporter(cfg *config.Config, logger logging.Logger) bridge.Exporter {
	var sinks []bridge.Exporter
	if cfg.ExportDir != "" {
		sinks = append(sinks, export.NewFileExporter(cfg.ExportDir, logger))
	}
	if cfg.S3Bucket != "" {
		sinks = append(sinks, export.NewS3Exporter(export.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}, logger))
	}

	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	default:
		return multiExporter(sinks)
	}
}

// multiExporter fans one artifact out to every configured sink.
type multiExporter []bridge.Exporter

func (m multiExporter) Export(ctx context.Context, requestID string, artifact *bridge.Artifact) error {
	var errs []error
	for _, e := range m {
		if err := e.Export(ctx, requestID, artifact); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves envelopes until stdin closes or the context is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting bridge host", "trust_dsn", app.config.TrustDSN)

	app.initSignalHandler(cancelFunc)
	app.routes.StartSweeper(ctx, app.config.RouteSweepInterval)

	var wg sync.WaitGroup
	for {
		env, err := app.conn.ReadEnvelope()
		if err != nil {
			if errors.Is(err, io.EOF) {
				app.logger.Info(ctx, "message channel closed")
			} else {
				app.logger.Error(ctx, "frame read error", "error", err.Error())
			}
			break
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(env *Envelope) {
			defer wg.Done()
			app.dispatcher.Dispatch(ctx, env.Origin, env.Message, app.conn)
		}(env)
	}

	wg.Wait()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "trust db close error", "error", err.Error())
	}
}
