// cmd/matchctl/root.go
package main

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "matchctl"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          app,
		Short:        "matchctl scores influencer/business pairs and manages the matching service's registry and schema",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is configs/config.yaml with env overrides)")
	cmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	cmd.PersistentFlags().BoolP("json", "j", false, "print results as json")

	cmd.AddCommand(newVersionCmd(), newScoreCmd(), newRegistryCmd(), newMigrateCmd())
	return cmd
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("matching.default_max_followers", "MATCHING_DEFAULT_MAX_FOLLOWERS"); err != nil {
		log.Fatalf("binding MATCHING_DEFAULT_MAX_FOLLOWERS environment variable: %v", err)
	}
}
