package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ftddns/ftddns/pkg/audit"
	"github.com/ftddns/ftddns/pkg/config"
	"github.com/ftddns/ftddns/pkg/credentials"
	"github.com/ftddns/ftddns/pkg/db"
	"github.com/ftddns/ftddns/pkg/dnsprovider/route53"
	"github.com/ftddns/ftddns/pkg/imds"
	"github.com/ftddns/ftddns/pkg/server"
	"github.com/ftddns/ftddns/pkg/server/endpoints"
	"github.com/ftddns/ftddns/pkg/store"
	gormstore "github.com/ftddns/ftddns/pkg/store/gorm"
	"github.com/ftddns/ftddns/pkg/updater"
	"github.com/ftddns/ftddns/pkg/zone"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the ft-ddns application server",
	Long: `Run the ft-ddns application server.

To run the server requires the environment variables DATABASE_URL and
HOSTED_ZONE_ID_LIST.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := newLogger()

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			logger.Info("running database migrations")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		gdb, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		accounts := gormstore.NewAccountStore(gdb)
		hasher := credentials.NewHasher()

		ctx := context.Background()
		if err := bootstrapAdmin(ctx, accounts, hasher, cfg.AdminPassword, logger); err != nil {
			fmt.Fprintln(os.Stderr, "Admin bootstrap failed:", err)
			os.Exit(1)
		}

		provider, err := route53.New(ctx, cfg.AWSRegion, cfg.UsePrivateHostedZone)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create Route 53 client:", err)
			os.Exit(1)
		}

		hostedZones, err := provider.ListZones(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to list hosted zones:", err)
			os.Exit(1)
		}
		zones := zone.Build(logger, hostedZones, cfg.ZoneAllowlist())

		upd := updater.New(provider, zones, logger, cfg.DryRun)
		if err := selfRegister(ctx, upd, zones, cfg, logger); err != nil {
			fmt.Fprintln(os.Stderr, "Self-registration failed:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		if host == "" {
			host = cfg.BindAddress
		}
		port, _ := cmd.Flags().GetString("port")
		if port == "" {
			port = cfg.Port
		}

		s := server.NewServer(
			gdb,
			accounts,
			zones,
			upd,
			hasher,
			credentials.NewIssuer(hasher),
			logger,
			audit.NewLogger(os.Stderr),
			cfg.BaseURL,
			host,
			port,
		)
		endpoints.RegisterAll(s)

		logger.Info("running server", "addr", "http://"+host+":"+port)
		if err := s.Start(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// bootstrapAdmin creates the "admin" account from DDNS_ADMIN_PASSWORD. An
// already-existing account is left untouched so restarts are idempotent.
func bootstrapAdmin(ctx context.Context, accounts store.AccountStore, hasher *credentials.Hasher, password string, logger *slog.Logger) error {
	if password == "" {
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	err = accounts.CreateAdmin(ctx, "admin", hash)
	if errors.Is(err, store.ErrDuplicateUser) {
		logger.Info("admin account already exists, skipping bootstrap")
		return nil
	}
	if err == nil {
		logger.Info("admin account created")
	}
	return err
}

// selfRegister points the configured public/private domains at this
// instance's addresses from the EC2 metadata service. A misconfigured
// domain or a failed update prevents startup.
func selfRegister(ctx context.Context, upd *updater.Updater, zones *zone.Resolver, cfg config.Config, logger *slog.Logger) error {
	if cfg.PublicDomain == "" && cfg.PrivateDomain == "" {
		return nil
	}

	client := imds.NewClient()

	register := func(domain string, fetch func(context.Context) (netip.Addr, error)) error {
		if !zones.DomainIncluded(domain) {
			return fmt.Errorf("the domain %q isn't available in the current configuration", domain)
		}
		ip, err := fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetching instance address for %s: %w", domain, err)
		}
		if outcome := upd.UpsertARecord(ctx, domain, ip); outcome.Status != updater.StatusOK {
			return fmt.Errorf("failed to set %s to %s", domain, ip)
		}
		logger.Warn("auto-configured domain", "domain", domain, "ip", ip.String())
		return nil
	}

	if cfg.PrivateDomain != "" {
		if err := register(cfg.PrivateDomain, client.PrivateIPv4); err != nil {
			return err
		}
	}
	if cfg.PublicDomain != "" {
		if err := register(cfg.PublicDomain, client.PublicIPv4); err != nil {
			return err
		}
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("FTDDNS_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "server listen port (default from PORT)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (default from BIND_ADDRESS)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
