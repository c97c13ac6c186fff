package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skypie-oracle/precomputer/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "skypie-oracle",
	Short:   "Precompute optimal multi-cloud storage replication placements",
	Version: version.Current,
}

// Execute runs the command tree; a fatal error here is spec.md §6's exit
// code 1, since by the time cobra surfaces an error the offending
// subcommand's own RunE has already classified it as config (2) or fatal
// (1) and exited directly — reaching this path means cobra itself
// rejected the invocation (unknown flag, bad subcommand).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(precomputeCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// initConfig lets any flag be set via an SKYPIE_-prefixed environment
// variable, grounded on cmd/cloudslash/commands/root.go's
// viper.AutomaticEnv() pattern; unlike that teacher command this CLI has
// no dotfile default, since every run-shaping value either comes from a
// flag or the explicit --config HCL file precompute.go loads itself.
func initConfig() {
	viper.SetEnvPrefix("SKYPIE")
	viper.AutomaticEnv()
}
