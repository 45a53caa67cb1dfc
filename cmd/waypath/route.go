package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) newRouteCmd() *cobra.Command {
	var from []float64
	cmd := &cobra.Command{
		Use:   "route <destination>",
		Short: "Print the shortest route from a position to a named or numbered waypoint",
		Example: `  waypath route desk --from 0,0,0
  waypath route 12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(from) != 0 && len(from) != 3 {
				return fmt.Errorf("--from wants x,y,z, got %d values", len(from))
			}
			ctx := cmd.Context()
			sess, closeStore, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			line := "go " + strings.Join(args, " ")
			if len(from) == 3 {
				line += " from " + formatFloats(from)
			}

			return a.newHandler(sess).Execute(ctx, line)
		},
	}
	cmd.Flags().Float64SliceVar(&from, "from", nil, "start position x,y,z (default origin)")

	return cmd
}

func formatFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}

	return strings.Join(parts, " ")
}
