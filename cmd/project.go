package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qualia-framework/qualia/internal/log"
)

var ProjectCmd = &cobra.Command{
	Use:          "project TYPE SHAPE",
	Short:        "View a qualified type at one of its supertypes",
	RunE:         runProject,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var (
	projectWorld    *string
	projectLogLevel *int
)

func init() {
	projectWorld = ProjectCmd.Flags().StringP("world", "w", "world.yaml", "YAML file declaring classes and qualifier hierarchies")
	projectLogLevel = ProjectCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level as in log/slog")
}

func runProject(_ *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*projectLogLevel))
	ctx, lattice, err := loadContext(*projectWorld)
	if err != nil {
		return err
	}
	subject, err := ctx.ParseType(lattice, args[0])
	if err != nil {
		return err
	}
	shape, err := ctx.ParseType(lattice, args[1])
	if err != nil {
		return err
	}
	res := ctx.AsSuperShaped(subject, shape)
	if err := drainFailures(ctx); err != nil {
		return err
	}
	fmt.Println(res.String())
	return nil
}
