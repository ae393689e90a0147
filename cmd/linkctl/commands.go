// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/linkpulse/internal/config"
	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/models"
)

// maintenanceStore is the store surface linkctl needs.
type maintenanceStore interface {
	CleanupExpired(ctx context.Context, now time.Time) ([]models.DeletedLink, error)
	PromoteAdmin(ctx context.Context, email string) (*models.User, error)
	Close() error
}

type commandDeps struct {
	loadConfig func() (*config.Config, error)
	openStore  func(cfg *config.DatabaseConfig) (maintenanceStore, error)
	now        func() time.Time
}

func newRootCmd(deps commandDeps) *cobra.Command {
	if deps.now == nil {
		deps.now = time.Now
	}

	root := &cobra.Command{
		Use:           "linkctl",
		Short:         "Linkpulse maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCleanupCmd(deps), newPromoteAdminCmd(deps))
	return root
}

func newCleanupCmd(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired links and their clicks",
		Long: `Deletes every link whose expiry is in the past, together with its
recorded clicks, and prints the short code of each removed link.

Example:
  linkctl cleanup`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), deps, func(ctx context.Context, store maintenanceStore) error {
				removed, err := store.CleanupExpired(ctx, deps.now().UTC())
				if err != nil {
					return fmt.Errorf("cleanup expired links: %w", err)
				}

				out := cmd.OutOrStdout()
				for _, link := range removed {
					fmt.Fprintf(out, "removed %s (id %d)\n", link.ShortCode, link.ID)
				}
				fmt.Fprintf(out, "%d expired link(s) removed\n", len(removed))
				return nil
			})
		},
	}
}

func newPromoteAdminCmd(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "promote-admin <email>",
		Short: "Grant admin rights to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email must not be empty")
			}

			return withStore(cmd.Context(), deps, func(ctx context.Context, store maintenanceStore) error {
				user, err := store.PromoteAdmin(ctx, email)
				if errors.Is(err, models.ErrNotFound) {
					return fmt.Errorf("no user registered with email %s", email)
				}
				if err != nil {
					return fmt.Errorf("promote admin: %w", err)
				}

				logging.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("User promoted to admin")
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Username, user.Email)
				return nil
			})
		},
	}
}

// withStore loads configuration, opens the store for fn and closes it.
func withStore(ctx context.Context, deps commandDeps, fn func(context.Context, maintenanceStore) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	store, err := deps.openStore(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()

	return fn(ctx, store)
}
