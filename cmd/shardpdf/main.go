// Command shardpdf splits one JSON document into a configurable number of
// self-contained PDF (or DOCX) reports.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/dgallion1/shardpdf/internal/api"
	"github.com/dgallion1/shardpdf/internal/config"
	"github.com/dgallion1/shardpdf/internal/converter"
	"github.com/dgallion1/shardpdf/internal/pipeline"
)

const version = "0.2.0"

var cli struct {
	Config  string     `help:"Path to TOML config file." type:"path"`
	Verbose bool       `short:"v" help:"Enable debug logging."`
	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert a JSON document into chunked reports."`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP conversion service."`
	Version VersionCmd `cmd:"" help:"Print version information."`
}

// App carries the loaded config and logger into command Run methods.
type App struct {
	cfg config.Config
	log *slog.Logger
}

// ConvertCmd runs a single conversion. Flags override the loaded config;
// unset flags keep the config/file/env value.
type ConvertCmd struct {
	Input      string `short:"i" help:"Input JSON file (default test.json)." type:"path"`
	Output     string `short:"o" help:"Output directory (default output_pdfs)." type:"path"`
	Files      int    `short:"f" help:"Number of output files (default 40)."`
	Sequential bool   `short:"s" help:"Process chunks one at a time."`
	Timeout    int    `short:"t" help:"Per-file timeout in seconds (default 300)."`
	Format     string `help:"Output format: pdf or docx."`
	Verify     bool   `help:"Re-open each produced PDF to verify it."`
}

func (c *ConvertCmd) Run(app *App) error {
	cfg := app.cfg
	if c.Input != "" {
		cfg.InputFile = c.Input
	}
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Files > 0 {
		cfg.NumFiles = c.Files
	}
	if c.Sequential {
		cfg.ForceSequential = true
	}
	if c.Timeout > 0 {
		cfg.TimeoutSeconds = c.Timeout
	}
	if c.Format != "" {
		cfg.Format = c.Format
	}
	if c.Verify {
		cfg.VerifyOutput = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := converter.Convert(ctx, cfg, app.log, &logObserver{log: app.log})
	if err != nil {
		return err
	}
	if !rep.OverallSuccess {
		return fmt.Errorf("conversion finished with failures: %d of %d files produced", rep.ProducedFiles, rep.RequestedFiles)
	}
	return nil
}

// logObserver reports chunk completions as they happen.
type logObserver struct {
	log  *slog.Logger
	done atomic.Int64
}

func (o *logObserver) OnChunkDone(out pipeline.Outcome) {
	n := o.done.Add(1)
	o.log.Info("chunk done",
		"chunk", out.ChunkIndex,
		"status", out.Status,
		"completed", n,
		"duration_ms", out.Duration.Milliseconds(),
	)
}

// ServeCmd runs the HTTP conversion service.
type ServeCmd struct {
	Port string `short:"p" help:"Listen port (default 8091)."`
}

func (c *ServeCmd) Run(app *App) error {
	cfg := app.cfg
	if c.Port != "" {
		cfg.Port = c.Port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := api.NewServer(cfg, app.log)
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		app.log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		cancel()
		srv.Stop()
	}()

	app.log.Info("starting shardpdf service", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (VersionCmd) Run(app *App) error {
	fmt.Println("shardpdf " + version)
	return nil
}

func main() {
	_ = godotenv.Load()

	kctx := kong.Parse(&cli,
		kong.Name("shardpdf"),
		kong.Description("Split a JSON document into chunked PDF reports."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shardpdf: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cli.Verbose || cfg.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	err = kctx.Run(&App{cfg: cfg, log: log})
	kctx.FatalIfErrorf(err)
}
