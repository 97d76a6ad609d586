package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/terraconstructs/logbook/cmd/admins"
	"github.com/terraconstructs/logbook/internal/config"
)

var (
	cfg        *config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "logbookapi",
	Short: "Logbook API server for student activity journals",
	Long: `Logbook API lets students keep a dated activity journal and lets
administrators browse students and their entries over a JSON HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("failed to read config file %s: %w", configFile, err)
			}
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML, TOML or JSON config file")
	flags.String("db-url", "", "Database connection URL (env: LOGBOOK_DATABASE_URL)")
	flags.String("server-addr", "", "Server bind address (env: LOGBOOK_SERVER_ADDR)")
	flags.Bool("debug", false, "Log every SQL query (env: LOGBOOK_DEBUG)")
	flags.Bool("auto-migrate", false, "Apply pending migrations on start (env: LOGBOOK_AUTO_MIGRATE)")

	bindFlag("database_url", "db-url")
	bindFlag("server_addr", "server-addr")
	bindFlag("debug", "debug")
	bindFlag("auto_migrate", "auto-migrate")

	rootCmd.AddCommand(admins.NewCommand(func() *config.Config { return cfg }))
}

// bindFlag maps a persistent flag onto a config key. Unset flags fall
// through to env, file and defaults.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
