package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goXahaud/internal/config"
	"github.com/LeJamon/goXahaud/internal/core/amendment"
	"github.com/LeJamon/goXahaud/internal/core/ledger"
	"github.com/LeJamon/goXahaud/internal/core/tx"
	_ "github.com/LeJamon/goXahaud/internal/core/tx/all"
	"github.com/LeJamon/goXahaud/internal/storage/keyValueDb"
	pebbledb "github.com/LeJamon/goXahaud/internal/storage/keyValueDb/pebble"
	"github.com/LeJamon/goXahaud/internal/storage/nodestore"
	"github.com/LeJamon/goXahaud/internal/storage/nodestore/compression"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "xahaud",
		Short: "xahaud is a ledger daemon with payment channels and hooks",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "xahaud", version)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the node in standalone mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runNode(cmd, cfg)
		},
	})

	return root
}

func runNode(cmd *cobra.Command, cfg *config.Config) error {
	store, err := pebbledb.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	var compressor compression.Compressor = compression.None{}
	if cfg.Storage.Compression == "lz4" {
		compressor = compression.LZ4{}
	}
	nodes := nodestore.New(store, compressor)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	current, err := nodes.LoadLedger(ctx)
	if errors.Is(err, keyValueDb.ErrKeyNotFound) {
		current = ledger.New(ledger.Fees{
			Base:             cfg.Ledger.BaseFee,
			ReserveBase:      cfg.Ledger.ReserveBase,
			ReserveIncrement: cfg.Ledger.ReserveIncrement,
		})
		current.Info.Seq = 1
	} else if err != nil {
		return fmt.Errorf("failed to restore ledger: %w", err)
	}

	rules := amendment.NewRulesBuilder()
	for _, name := range cfg.Features {
		rules.EnableByName(name)
	}
	engine := tx.NewEngine(current, tx.EngineConfig{Rules: rules.Build()})

	fmt.Fprintf(cmd.OutOrStdout(), "ledger %d restored (%d entries), %d amendments enabled\n",
		current.Info.Seq, current.EntryCount(), engine.Config().Rules.EnabledCount())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return nodes.SaveLedger(context.Background(), current)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ledger saved, bye")
	return nil
}
