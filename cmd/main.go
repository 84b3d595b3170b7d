package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/richard-senior/sofabet/internal/logger"
	"github.com/richard-senior/sofabet/pkg/bet"
	"github.com/richard-senior/sofabet/pkg/podds"
	"github.com/richard-senior/sofabet/pkg/sofascore"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	ledgerPath := flag.String("ledger", "", "sqlite ledger of analysed fixtures (overrides config)")
	history := flag.Int("history", 0, "print the last n ledger rows and exit")
	asJSON := flag.Bool("json", false, "print today's predictions as JSON after the report")
	debug := flag.Bool("debug", false, "Enable debug logging")
	level := flag.String("level", "info", "minimum log level: debug, info, inform, highlight, warn, error")
	logOutput := flag.String("log", "c", "log destination: c (console), f (file) or b (both)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [championship id or name]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := podds.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Invalid configuration", err)
	}
	if *ledgerPath != "" {
		cfg.LedgerPath = *ledgerPath
	}
	podds.UpdateConfig(cfg)

	// Configure logging
	logger.SetLogFile(cfg.LogFile)
	if len(*logOutput) != 1 {
		logger.Fatal("Invalid -log value", *logOutput)
	}
	if err := logger.SetLogOutput(rune((*logOutput)[0])); err != nil {
		logger.Fatal("Failed to configure logging", err)
	}
	defer logger.Close()
	logger.SetLevel(logger.ParseLevel(*level))
	if *debug {
		logger.SetLevel(logger.DEBUG)
	}
	if logger.GetLevel() == logger.DEBUG {
		logger.SetShowDateTime(true)
		logger.Debug("Debug logging enabled")
	}

	if *history > 0 {
		if err := printHistory(os.Stdout, cfg.LedgerPath, *history); err != nil {
			logger.Fatal("Failed to read ledger", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, strings.Join(flag.Args(), " "), *asJSON); err != nil {
		stop()
		if errors.Is(err, bet.ErrInvalidSelection) {
			logger.Error("Invalid selection", err)
			os.Exit(2)
		}
		logger.Fatal("Run failed", err)
	}
}

func run(ctx context.Context, cfg *podds.PoddsConfig, championship string, asJSON bool) error {
	fmt.Println("Welcome to our bet program")
	fmt.Println()

	client, err := sofascore.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}

	runner := bet.NewRunner(client, &bet.PromptSelector{In: os.Stdin, Out: os.Stdout}, os.Stdout)

	if cfg.LedgerPath != "" {
		ledger, err := podds.OpenLedger(cfg.LedgerPath)
		if err != nil {
			logger.Warn("Ledger disabled", err)
		} else {
			defer ledger.Close()
			runner.Recorder = ledger
			logger.Info("Recording predictions to", cfg.LedgerPath, "run", ledger.RunID())
		}
	}

	preds, err := runner.Run(ctx, championship)
	if err != nil {
		return err
	}
	logger.Inform("Fixtures to bet on today:", len(preds))

	if asJSON {
		if preds == nil {
			preds = []*podds.Prediction{}
		}
		data, err := json.MarshalIndent(preds, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode predictions: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}

func printHistory(w io.Writer, path string, n int) error {
	if path == "" {
		return fmt.Errorf("no ledger configured, use -ledger or %s", podds.EnvLedger)
	}
	ledger, err := podds.OpenLedger(path)
	if err != nil {
		return err
	}
	defer ledger.Close()

	rows, err := ledger.Recent(n)
	if err != nil {
		return err
	}
	for _, e := range rows {
		odds := e.BookOdds()
		fmt.Fprintf(w, "%s  %-24s %-22s - %-22s 1:%5.1f%% X:%5.1f%% 2:%5.1f%%  top %s  book %s/%s/%s\n",
			e.RecordedAt, e.League, e.HomeTeam, e.AwayTeam,
			e.HomeWin*100, e.Draw*100, e.AwayWin*100, e.TopScore,
			odds.Home, odds.Draw, odds.Away)
	}
	return nil
}
