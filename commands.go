package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/keithsimkin/moneymanager-sub001/internal/cloudsync"
	"github.com/keithsimkin/moneymanager-sub001/internal/config"
	"github.com/keithsimkin/moneymanager-sub001/internal/localstore"
	"github.com/keithsimkin/moneymanager-sub001/internal/logger"
)

// withApp loads config, opens the app for a one-shot command and runs fn.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context(), log)

	a, err := newApp(ctx, cfg, log, cliDBRetries)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newLoginCommand(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to cloud sync and keep the session in the local store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CASHFLOW_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or CASHFLOW_PASSWORD) are required")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if a.auth == nil {
					return errors.New(cloudsync.MsgNotConfigured)
				}
				if a.localKind == localstore.KindMemory {
					a.log.Warn().Msg("Local store is in-memory; the session will not outlive this command")
				}

				sess, err := a.auth.SignIn(ctx, email, password)
				if err != nil {
					return fmt.Errorf("sign in failed: %w", err)
				}
				if err := a.sessions.Save(ctx, sess); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.User.Email, sess.User.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.sessions.Clear(ctx); err != nil {
					return fmt.Errorf("clearing session: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func newSyncCommand(opts *rootOptions) *cobra.Command {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Cloud sync operations",
	}

	syncCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether a signed-in session can reach cloud sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				status := a.sync.CheckConnection(ctx)
				cfg := a.sync.Config(ctx)

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Enabled:   %t\n", cfg.Enabled)
				if cfg.LastSyncAt != nil {
					fmt.Fprintf(out, "Last sync: %s\n", cfg.LastSyncAt.Format("2006-01-02 15:04:05 MST"))
				} else {
					fmt.Fprintln(out, "Last sync: never")
				}
				if !status.Connected {
					return errors.New(status.Error)
				}
				fmt.Fprintf(out, "Connected: %s\n", status.UserID)
				return nil
			})
		},
	})

	syncCmd.AddCommand(&cobra.Command{
		Use:   "upload",
		Short: "Overwrite the cloud copy with the local snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				data, err := a.ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				res := a.sync.Upload(ctx, data)
				if !res.Success {
					return errors.New(res.Error)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d transactions\n", len(data.Transactions))
				return nil
			})
		},
	})

	syncCmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Replace the local snapshot with the cloud copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res := a.sync.Download(ctx)
				if !res.Success {
					return errors.New(res.Error)
				}
				if err := a.ledger.Replace(ctx, *res.Data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Downloaded %d transactions\n", len(res.Data.Transactions))
				return nil
			})
		},
	})

	for _, enabled := range []bool{true, false} {
		use, short := "enable", "Turn cloud sync on"
		if !enabled {
			use, short = "disable", "Turn cloud sync off"
		}
		syncCmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, a *app) error {
					cfg := a.sync.Config(ctx)
					cfg.Enabled = enabled
					return a.sync.SaveConfig(ctx, cfg)
				})
			},
		})
	}

	return syncCmd
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			masked := *cfg
			masked.Supabase.AnonKey = mask(masked.Supabase.AnonKey)
			masked.Supabase.AccessToken = mask(masked.Supabase.AccessToken)
			masked.Remote.DatabaseURL = mask(masked.Remote.DatabaseURL)
			masked.AMQP.URL = mask(masked.AMQP.URL)

			out, err := yaml.Marshal(&masked)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			if err == nil {
				if verr := cfg.Validate(); verr != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), verr)
				}
			}
			return err
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}
			if err := config.Save(opts.configPath, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
