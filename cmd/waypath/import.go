package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waypath/session"
	"github.com/katalvlaran/waypath/spatial"
)

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <scenario.hcl>",
		Short: "Replace the saved map with an HCL scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			sess := session.New(spatial.NewMemory(), session.WithStore(st))
			n, err := a.applySeed(ctx, sess, args[0])
			if err != nil {
				return err
			}
			b, err := sess.Save(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "imported %d waypoints and %d names into %s\n", n, len(b.Names), a.cfg.Store.Path)

			return nil
		},
	}
}
