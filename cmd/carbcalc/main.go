package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/carb-calculator/internal/config"
	"github.com/vladimiradmaev/carb-calculator/internal/logger"
	"github.com/vladimiradmaev/carb-calculator/internal/services"
	"github.com/vladimiradmaev/carb-calculator/internal/storage"
)

type storageFlags struct {
	driver    string
	path      string
	namespace string
	verbose   bool
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &storageFlags{}

	rootCmd := &cobra.Command{
		Use:          "carbcalc",
		Short:        "Carb counting and insulin dose calculator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "storage driver (sqlite, postgres, redis, badger, memory); defaults to STORAGE_DRIVER")
	rootCmd.PersistentFlags().StringVar(&flags.path, "path", "", "sqlite file or badger directory; defaults to STORAGE_PATH")
	rootCmd.PersistentFlags().StringVar(&flags.namespace, "namespace", "", "key namespace; defaults to STORAGE_NAMESPACE")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log storage activity to stderr")

	rootCmd.AddCommand(configCmd(flags))
	rootCmd.AddCommand(foodCmd(flags))
	rootCmd.AddCommand(sessionCmd(flags))
	rootCmd.AddCommand(totalsCmd(flags))
	rootCmd.AddCommand(glucoseCmd(flags))
	rootCmd.AddCommand(historyCmd(flags))
	rootCmd.AddCommand(shareCmd(flags))
	rootCmd.AddCommand(estimateCmd(flags))

	return rootCmd
}

// app is one opened store plus the services over it.
type app struct {
	*services.MealService
	gw *storage.Gateway
}

func (a *app) Close() error {
	return a.gw.Close()
}

// loadConfig reads the environment and applies the command-line overrides.
func (f *storageFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if f.driver != "" && f.driver != cfg.Storage.Driver {
		cfg.Storage.Driver = strings.ToLower(f.driver)
		if os.Getenv("STORAGE_PATH") == "" {
			cfg.Storage.Path = config.DefaultStoragePath(cfg.Storage.Driver)
		}
	}
	if f.path != "" {
		cfg.Storage.Path = f.path
	}
	if f.namespace != "" {
		cfg.Storage.Namespace = f.namespace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *storageFlags) open(cmd *cobra.Command) (*app, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}

	level := logger.LevelWarn
	if f.verbose {
		level = logger.LevelDebug
	}
	log := logger.New(cmd.ErrOrStderr(), logger.Config{Level: level, Format: "text"})

	gw, err := storage.Open(cmd.Context(), cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return &app{MealService: services.Wire(gw, log), gw: gw}, nil
}

// withApp opens the store for the duration of fn.
func withApp(flags *storageFlags, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := flags.open(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd.Context(), cmd, a, args)
	}
}

// confirm asks on stdin unless yes is set.
func confirm(cmd *cobra.Command, yes bool, prompt string) (bool, error) {
	if yes {
		return true, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
