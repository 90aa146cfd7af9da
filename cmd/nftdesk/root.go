package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jask/nftdesk/internal/config"
	"github.com/jask/nftdesk/internal/database"
	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/logging"
	"github.com/jask/nftdesk/internal/prefs"
	"github.com/jask/nftdesk/internal/service"
	"github.com/jask/nftdesk/internal/state"
	"github.com/jask/nftdesk/internal/tui"
	"github.com/jask/nftdesk/internal/wallet"
)

var rootCmd = &cobra.Command{
	Use:   "nftdesk",
	Short: "Browse and manage the NFTs in a local wallet",
	Long: `nftdesk browses the NFTs of a local wallet database.

Without a subcommand it starts the interactive browser. Configuration is read
from ~/.config/nftdesk/config.toml (or $NFTDESK_CONFIG) and NFTDESK_ env vars.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runBrowser(cmd.Context())
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newListCmd(), newDBCmd(), newConfigCmd())
}

// env is everything a command needs once configuration and storage are up.
type env struct {
	cfg    config.Config
	db     *sql.DB
	wallet *wallet.Local
	params *state.Params
}

func (e *env) Close() {
	if e.db != nil {
		_ = e.db.Close()
	}
}

// openEnv migrates and opens the wallet database and restores the saved view.
func openEnv(ctx context.Context, cfg config.Config) (*env, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	defaults := prefs.Defaults(cfg.UI)
	initial, err := prefs.LoadView(cfg.UI.StateFile, defaults)
	if err != nil {
		log.Warn().Err(err).Msg("ignoring saved view params")
		initial = defaults
	}

	w := wallet.NewLocal(db, gateway.Unit{Ticker: cfg.Wallet.Ticker, Decimals: cfg.Wallet.Decimals}, cfg.Wallet.BurnAddress)
	return &env{cfg: cfg, db: db, wallet: w, params: state.NewParams(initial)}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrationsWithDB(db, cfg.Database.Migrations); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.Wallet.SeedDemo {
		if err := database.SeedDefaults(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed demo wallet: %w", err)
		}
	}
	return db, nil
}

func runBrowser(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	closer, err := logging.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closer.Close()

	e, err := openEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.New(ctx, tui.Deps{
		Gateway:   e.wallet,
		Params:    e.params,
		Wallet:    state.NewStore(state.WalletState{}),
		Offer:     state.NewStore(state.OfferState{}),
		Errors:    state.NewErrors(),
		StateFile: e.cfg.UI.StateFile,
	})
	defer app.Close()

	log.Info().Str("db", e.cfg.Database.Path).Msg("starting browser")
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run browser: %w", err)
	}
	return nil
}

func consoleLogging(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.Console(level)
}

func newListCmd() *cobra.Command {
	var (
		page   int
		view   string
		hidden bool
		query  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of NFTs or collections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := consoleLogging(cmd); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			e, err := openEnv(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer e.Close()

			patch := state.ParamsPatch{}
			if cmd.Flags().Changed("view") {
				v, err := state.ParseView(view)
				if err != nil {
					return err
				}
				patch.View = &v
			}
			if cmd.Flags().Changed("hidden") {
				patch.ShowHidden = &hidden
			}
			if cmd.Flags().Changed("query") {
				patch.Query = &query
			}
			e.params.SetParams(patch)
			e.params.SetParams(state.ParamsPatch{Page: &page})

			errs := state.NewErrors()
			list := service.NewListController(e.wallet, e.params, errs)
			res := list.Refresh(cmd.Context(), e.params.Get().Page)
			if res.Err != nil {
				return res.Err
			}
			if total := list.Snapshot().Pager().TotalPages; e.params.Get().Page > total {
				clamped := e.params.ClampPage(total)
				if res = list.Refresh(cmd.Context(), clamped.Page); res.Err != nil {
					return res.Err
				}
			}
			p := e.params.Get()
			fmt.Fprint(cmd.OutOrStdout(), tui.ListText(p, list.Snapshot(), p.View == state.ViewCollection))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().StringVar(&view, "view", "name", "name, recent or collection")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "include hidden nfts")
	cmd.Flags().StringVar(&query, "query", "", "filter by name")
	cmd.Flags().String("log-level", "warn", "console log level")
	return cmd
}

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the wallet database",
	}
	cmd.PersistentFlags().String("log-level", "info", "console log level")

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := consoleLogging(cmd); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(cfg.Database.Path, cfg.Database.Migrations); err != nil {
				return err
			}
			log.Info().Str("db", cfg.Database.Path).Msg("migrations applied")
			return nil
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
				if err := database.SeedDefaults(ctx, db); err != nil {
					return err
				}
				log.Info().Msg("demo wallet seeded")
				return nil
			})
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete every nft, collection, profile and transaction",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
				if err := database.Reset(ctx, db); err != nil {
					return err
				}
				log.Info().Msg("database reset")
				return nil
			})
		},
	}

	imp := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import nfts with CHIP-0007 metadata from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd, func(ctx context.Context, db *sql.DB) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				items, err := database.DecodeImports(f)
				if err != nil {
					return err
				}
				res, err := database.ImportNfts(ctx, db, items)
				if err != nil {
					return err
				}
				for _, ierr := range res.Errors {
					log.Warn().Err(ierr).Msg("skipped nft")
				}
				log.Info().Int("imported", res.Imported).Int("collections", res.Collections).Int("skipped", len(res.Errors)).Msg("import finished")
				return nil
			})
		},
	}

	cmd.AddCommand(migrate, seed, reset, imp)
	return cmd
}

// withDB opens and migrates the configured database without seeding.
func withDB(cmd *cobra.Command, fn func(context.Context, *sql.DB) error) error {
	if err := consoleLogging(cmd); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Wallet.SeedDemo = false
	db, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cmd.Context(), db)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Save(config.Default())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	})
	return cmd
}
