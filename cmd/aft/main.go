package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	internal "github.com/ZanzyTHEbar/arith-finetune/aft"
	"github.com/ZanzyTHEbar/arith-finetune/aft/config"
	"github.com/ZanzyTHEbar/arith-finetune/aft/pipeline"
	"github.com/ZanzyTHEbar/arith-finetune/aft/ports"
)

// consoleInteractor writes pipeline progress to stdout/stderr.
type consoleInteractor struct{}

func (c *consoleInteractor) Stage(name string)       { fmt.Printf("==> %s\n", name) }
func (c *consoleInteractor) Output(message string)   { fmt.Println(message) }
func (c *consoleInteractor) Warning(message string)  { fmt.Fprintf(os.Stderr, "warning: %s\n", message) }
func (c *consoleInteractor) Error(message string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", message, err)
}
func (c *consoleInteractor) Result(table string) { fmt.Print(table) }

func main() {
	var (
		configPath = flag.String("config", "", "path to config.yaml (default: search cwd and "+internal.DefaultConfigPath+")")
		corpusPath = flag.String("corpus", "", "override corpus file or directory")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	logger := internal.GetLogger()
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(level)

	var ui ports.Interactor = &consoleInteractor{}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		ui.Error("failed to load configuration", err)
		logger.Fatal().Err(err).Msg("configuration")
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	if cfg.Corpus.Path == "" {
		ui.Error("no corpus configured", fmt.Errorf("set corpus.path or pass -corpus"))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The injected trainer is the opaque fine-tuning backend; nil selects the
	// deterministic dev trainer so the pipeline runs standalone.
	p, err := pipeline.New(cfg, nil)
	if err != nil {
		ui.Error("failed to build pipeline", err)
		logger.Fatal().Err(err).Msg("pipeline construction")
	}
	defer p.Close()

	ui.Stage("running fine-tune pipeline")
	result, err := p.Run(ctx)
	if err != nil {
		ui.Error("pipeline failed", err)
		logger.Fatal().Err(err).Msg("pipeline run")
	}

	ui.Stage("training summary")
	ui.Output(fmt.Sprintf("run %s: %d losses, first %.4f, last %.4f, min %.4f",
		result.RunID, result.Summary.Count, result.Summary.First, result.Summary.Last, result.Summary.Min))
	ui.Output(fmt.Sprintf("loss trace written to %s", cfg.Artifacts.LossPath))

	ui.Stage("evaluation")
	ui.Result(result.Report.String())
}
