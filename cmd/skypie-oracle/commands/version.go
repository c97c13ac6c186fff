package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skypie-oracle/precomputer/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", version.AppName, version.Current)
	},
}
