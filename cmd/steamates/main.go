package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/steamates/steamates/internal/profile"
	"github.com/steamates/steamates/server"
	"github.com/steamates/steamates/store"
	"github.com/steamates/steamates/store/db"
)

const greetingBanner = `SteaMates server`

var rootCmd = &cobra.Command{
	Use:   "steamates",
	Short: "Steam-aware gaming assistant backend",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile, err := profile.GetFromViper(viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigChan
			slog.Info("received signal, shutting down", "signal", sig)
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Println(greetingBanner)
		if !instanceProfile.IsSteamEnabled() {
			slog.Warn("STEAMATES_STEAM_API_KEY not configured, Steam features are disabled")
		}
		if !instanceProfile.IsChatEnabled() {
			slog.Warn("STEAMATES_GROQ_API_KEY not configured, chat is disabled")
		}

		return s.Start(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run server", "error", err)
		os.Exit(1)
	}
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 3001)
	viper.SetDefault("data", "")
	viper.SetDefault("client-url", "http://localhost:5173")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 3001, "binding port for the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("client-url", "http://localhost:5173", "frontend origin for login redirects and CORS")
	rootCmd.PersistentFlags().String("public-url", "", "externally reachable URL of this server")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("steamates")
	viper.AutomaticEnv()
	// STEAMATES_STEAM_API_KEY binds to "steam-api-key" and so on.
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}
