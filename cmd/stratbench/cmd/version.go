package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stratbench version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("stratbench", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
