// Package main provides the passemploi-tools operations CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lllypuk/passemploi/internal/config"
	"github.com/lllypuk/passemploi/internal/infrastructure/eventbus"
	"github.com/lllypuk/passemploi/internal/infrastructure/mongodb"
)

const commandTimeout = 2 * time.Minute

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	out        io.Writer
	logger     *slog.Logger
}

func (o *rootOptions) load() (*config.Config, error) {
	return config.LoadFromPath(o.configPath)
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{
		out:    out,
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}

	cmd := &cobra.Command{
		Use:          "passemploi-tools",
		Short:        "Operations tooling for the passemploi API",
		SilenceUsage: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml (defaults to the standard locations)")

	cmd.AddCommand(
		newCheckConfigCmd(opts),
		newEnsureIndexesCmd(opts),
		newDeadLettersCmd(opts),
	)
	return cmd
}

func newCheckConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			printConfigSummary(opts.out, cfg)
			return nil
		},
	}
}

func printConfigSummary(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "configuration is valid")
	fmt.Fprintf(out, "  environment:   %s\n", cfg.App.Environment)
	fmt.Fprintf(out, "  server:        %s\n", cfg.Server.Address())
	fmt.Fprintf(out, "  auth mode:     %s\n", cfg.Auth.Mode)
	fmt.Fprintf(out, "  mongodb:       %s\n", cfg.MongoDB.Database)
	fmt.Fprintf(out, "  redis:         %s\n", cfg.Redis.Addr)
	fmt.Fprintf(out, "  milo:          %s (%s)\n", cfg.Milo.URL, cfg.Milo.Timezone)
	fmt.Fprintf(out, "  evenements:    %s* (dead letters in %s)\n", cfg.Events.ChannelPrefix, cfg.Events.DeadLetterKey)
}

func newEnsureIndexesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the MongoDB indexes of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoDB.URI))
			if err != nil {
				return fmt.Errorf("failed to connect to MongoDB: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if pingErr := client.Ping(ctx, nil); pingErr != nil {
				return fmt.Errorf("failed to ping MongoDB: %w", pingErr)
			}

			if indexErr := mongodb.EnsureIndexes(ctx, client.Database(cfg.MongoDB.Database)); indexErr != nil {
				return indexErr
			}

			opts.logger.InfoContext(ctx, "indexes created", slog.String("database", cfg.MongoDB.Database))
			fmt.Fprintln(opts.out, "indexes are up to date")
			return nil
		},
	}
}

func newDeadLettersCmd(opts *rootOptions) *cobra.Command {
	var count int64

	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List the evenements the worker failed to store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer func() { _ = client.Close() }()

			dlq := eventbus.NewDeadLetterHandler(client,
				eventbus.WithDeadLetterQueueKey(cfg.Events.DeadLetterKey),
				eventbus.WithDeadLetterLogger(opts.logger),
			)
			return printDeadLetters(ctx, opts.out, dlq, count)
		},
	}
	cmd.Flags().Int64Var(&count, "count", 20, "number of entries to show, newest first")
	return cmd
}

type deadLetterReader interface {
	QueueLength(ctx context.Context) (int64, error)
	GetDeadLetters(ctx context.Context, count int64) ([]eventbus.DeadLetterEntry, error)
}

func printDeadLetters(ctx context.Context, out io.Writer, dlq deadLetterReader, count int64) error {
	total, err := dlq.QueueLength(ctx)
	if err != nil {
		return fmt.Errorf("failed to read dead letter queue: %w", err)
	}
	fmt.Fprintf(out, "%d dead letter(s)\n", total)
	if total == 0 {
		return nil
	}

	entries, err := dlq.GetDeadLetters(ctx, count)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-40s %-12s %s\n",
			time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339), e.Code, e.EmetteurID, e.Error)
	}
	return nil
}
