package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oivmap/oivmap/internal/profile"
	"github.com/oivmap/oivmap/internal/version"
	"github.com/oivmap/oivmap/server"
	"github.com/oivmap/oivmap/store"
	"github.com/oivmap/oivmap/store/db"
)

const greetingBanner = `oivmap %s — карта взаимодействия ОИВ`

var rootCmd = &cobra.Command{
	Use:   "oivmap",
	Short: "Government organization relationship visualizer",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile := &profile.Profile{
			Mode:          viper.GetString("mode"),
			Addr:          viper.GetString("addr"),
			Port:          viper.GetInt("port"),
			Data:          viper.GetString("data"),
			Driver:        viper.GetString("driver"),
			DSN:           viper.GetString("dsn"),
			DatasetPath:   viper.GetString("dataset"),
			SessionSecret: viper.GetString("session-secret"),
			Version:       version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return err
		}

		driver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}
		storeInstance := store.New(driver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutting down")
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Printf(greetingBanner+"\n", instanceProfile.Version)
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8230, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "memory", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("dataset", "", "path to the relationship dataset document")
	rootCmd.PersistentFlags().String("session-secret", "", "secret signing the session cookie")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "dataset", "session-secret"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("oivmap")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run", slog.Any("error", err))
		os.Exit(1)
	}
}
