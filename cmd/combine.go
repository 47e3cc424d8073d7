package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/qualia-framework/qualia/checker/types"
	"github.com/qualia-framework/qualia/internal/log"
)

var LubCmd = &cobra.Command{
	Use:          "lub TYPE TYPE",
	Short:        "Least upper bound of two qualified types",
	RunE:         runLub,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var GlbCmd = &cobra.Command{
	Use:          "glb TYPE TYPE",
	Short:        "Greatest lower bound of two qualified types",
	RunE:         runGlb,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var (
	lubWorld    *string
	lubLogLevel *int
	glbWorld    *string
	glbLogLevel *int
)

func init() {
	lubWorld = LubCmd.Flags().StringP("world", "w", "world.yaml", "YAML file declaring classes and qualifier hierarchies")
	lubLogLevel = LubCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level as in log/slog")
	glbWorld = GlbCmd.Flags().StringP("world", "w", "world.yaml", "YAML file declaring classes and qualifier hierarchies")
	glbLogLevel = GlbCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level as in log/slog")
}

func runLub(_ *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*lubLogLevel))
	return runCombine(*lubWorld, args, (*types.Context).LeastUpperBound)
}

func runGlb(_ *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*glbLogLevel))
	return runCombine(*glbWorld, args, (*types.Context).GreatestLowerBound)
}

func runCombine(worldPath string, args []string, op func(*types.Context, types.Type, types.Type) types.Type) error {
	ctx, lattice, err := loadContext(worldPath)
	if err != nil {
		return err
	}
	a, err := ctx.ParseType(lattice, args[0])
	if err != nil {
		return err
	}
	b, err := ctx.ParseType(lattice, args[1])
	if err != nil {
		return err
	}
	res := op(ctx, a, b)
	if err := drainFailures(ctx); err != nil {
		return err
	}
	fmt.Println(res.String())
	return nil
}

// drainFailures turns any failures the engine recorded into a single error.
func drainFailures(ctx *types.Context) error {
	if !ctx.HasFailures() {
		return nil
	}
	failures := ctx.Failures()
	for _, f := range failures {
		fmt.Println("failure:", f.Error())
	}
	return errors.Errorf("%d failure(s)", len(failures))
}
