package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qualia-framework/qualia/checker/host"
	"github.com/qualia-framework/qualia/checker/types"
	"github.com/qualia-framework/qualia/internal/log"
)

var MemberCmd = &cobra.Command{
	Use:          "member RECEIVER CLASS.NAME",
	Short:        "View a member's type as seen from a receiver type",
	RunE:         runMember,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
}

var (
	memberWorld    *string
	memberLogLevel *int
)

func init() {
	memberWorld = MemberCmd.Flags().StringP("world", "w", "world.yaml", "YAML file declaring classes and qualifier hierarchies")
	memberLogLevel = MemberCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level as in log/slog")
}

func runMember(_ *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*memberLogLevel))
	ctx, lattice, err := loadContext(*memberWorld)
	if err != nil {
		return err
	}
	receiver, err := ctx.ParseType(lattice, args[0])
	if err != nil {
		return err
	}
	className, memberName, ok := strings.Cut(args[1], ".")
	if !ok {
		return fmt.Errorf("member reference %q must be CLASS.NAME", args[1])
	}
	decl := ctx.World().Class(className)
	if decl == nil {
		return fmt.Errorf("unknown class %q", className)
	}
	member := decl.Member(memberName)
	if member == nil {
		return fmt.Errorf("class %s has no member %q", className, memberName)
	}
	memberType := ctx.Factory().TypeFor(member)
	res := ctx.AsMemberOf(receiver, member, memberType)
	if err := drainFailures(ctx); err != nil {
		return err
	}
	fmt.Println(formatMember(member, res))
	return nil
}

func formatMember(m *host.Member, t types.Type) string {
	if ex, ok := t.(*types.Executable); ok {
		parts := make([]string, len(ex.Params))
		for i, p := range ex.Params {
			parts[i] = p.String()
		}
		sig := m.Name + "(" + strings.Join(parts, ", ") + ")"
		if ex.Result != nil {
			sig += " " + ex.Result.String()
		}
		return sig
	}
	return m.Name + " " + t.String()
}
