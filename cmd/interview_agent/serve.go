package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-simulator/internal/coding"
	"github.com/jonathan/interview-simulator/internal/config"
	"github.com/jonathan/interview-simulator/internal/db"
	"github.com/jonathan/interview-simulator/internal/llm"
	"github.com/jonathan/interview-simulator/internal/orchestrator"
	"github.com/jonathan/interview-simulator/internal/server"
	"github.com/jonathan/interview-simulator/internal/types"
)

// janitorInterval is how often the session store sweeps for idle sessions.
const janitorInterval = 10 * time.Minute

var (
	serveAddr    string
	serveBudgets string
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running interview sessions.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&serveBudgets, "budgets", "", "Path to a round-budget YAML document (overrides BUDGETS_FILE)")
	serveCmd.Flags().BoolVar(&serveVerbose, "verbose", false, "Echo session starts and feedback to stdout")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	if serveBudgets != "" {
		cfg.BudgetsFile = serveBudgets
	}
	if serveVerbose {
		cfg.Verbose = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmConfig := llm.DefaultGeminiConfig()
	if cfg.Provider == "openai" {
		llmConfig = llm.DefaultOpenAIConfig()
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	var persist orchestrator.Persistence
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		persist = database
	} else {
		log.Println("DATABASE_URL not set; feedback persistence disabled")
	}

	catalogue, err := loadCatalogue(cfg.ProblemBank)
	if err != nil {
		return err
	}

	budgets, err := loadBudgets(cfg.BudgetsFile)
	if err != nil {
		return err
	}

	store := orchestrator.NewStore(cfg.SessionTTL)
	orch := orchestrator.New(client, store, persist, catalogue, budgets, nil)
	srv := server.New(server.Config{Addr: cfg.ListenAddr, Verbose: cfg.Verbose}, orch)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		if err := store.Janitor(gctx, janitorInterval); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

func loadBudgets(path string) (config.RoundBudgets, error) {
	if path == "" {
		budgets, err := config.DefaultBudgets()
		if err != nil {
			return config.RoundBudgets{}, fmt.Errorf("failed to load embedded round budgets: %w", err)
		}
		return budgets, nil
	}
	budgets, err := config.LoadBudgets(path)
	if err != nil {
		return config.RoundBudgets{}, fmt.Errorf("failed to load round budgets from %s: %w", path, err)
	}
	return budgets, nil
}

func loadCatalogue(path string) ([]types.Problem, error) {
	if path == "" {
		catalogue, err := coding.DefaultCatalogue()
		if err != nil {
			return nil, fmt.Errorf("failed to load embedded problem catalogue: %w", err)
		}
		return catalogue, nil
	}
	catalogue, err := coding.LoadCatalogue(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load problem catalogue from %s: %w", path, err)
	}
	return catalogue, nil
}
