package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/engine"
	"github.com/tutiful/papergen/internal/llm"
	"github.com/tutiful/papergen/internal/service"
	"github.com/tutiful/papergen/internal/store"
)

const defaultBankPath = "question_bank.json"

func resolveBankPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return p
	}
	if p := os.Getenv("PAPERGEN_BANK"); p != "" {
		return p
	}
	return defaultBankPath
}

// deps is the wired application stack behind the CLI commands.
type deps struct {
	service  *service.Service
	provider llm.Provider
	store    *store.Store
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
}

// buildDeps opens the store and bank and wires the engine. A missing
// LLM provider is not fatal: papers degrade to bank and variation
// questions.
func buildDeps(ctx context.Context, cmd *cobra.Command, log *zap.Logger) (*deps, error) {
	idx, err := bank.Load(resolveBankPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Papers will use bank questions and variations only.")
		provider = nil
	}

	eng := engine.New(idx, provider, engine.DefaultConfig(), log)
	return &deps{
		service:  service.New(eng, log),
		provider: provider,
		store:    st,
	}, nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
