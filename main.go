package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/qualia-framework/qualia/cmd"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "qualia [subcommand]",
	Short:        "qualia\n an augmented-type playground for pluggable qualifier checking",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.ProjectCmd)
	rootCmd.AddCommand(cmd.MemberCmd)
	rootCmd.AddCommand(cmd.LubCmd)
	rootCmd.AddCommand(cmd.GlbCmd)
}
