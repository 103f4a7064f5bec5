package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd prints the caller's installed chip8term version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the currently installed chip8term version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(currentReleaseVersion)
	},
}
