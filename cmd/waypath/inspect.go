package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waypath/persist"
)

func (a *app) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Describe the saved map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			b, err := st.Load(ctx)
			closeStore()
			if err != nil {
				return err
			}

			edges := 0
			for _, row := range b.Neighbors {
				edges += len(row)
			}
			fmt.Fprintf(a.stdout, "session:   %s\n", b.SessionID)
			fmt.Fprintf(a.stdout, "saved at:  %s\n", b.SavedAt.Format(time.RFC3339))
			fmt.Fprintf(a.stdout, "world:     %d bytes, blake3 %s\n", len(b.World), persist.Digest(b.World))
			fmt.Fprintf(a.stdout, "waypoints: %d\n", len(b.Neighbors))
			fmt.Fprintf(a.stdout, "links:     %d\n", edges/2)
			fmt.Fprintf(a.stdout, "names:     %d\n", len(b.Names))

			sess, closeSession, err := a.openSession(ctx)
			if err != nil {
				return err
			}
			defer closeSession()

			h := a.newHandler(sess)
			if err := h.Execute(ctx, "islands"); err != nil {
				return err
			}

			return h.Execute(ctx, "list")
		},
	}
}
