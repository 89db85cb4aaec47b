package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBBoxCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bbox <sprite>...",
		Short: "Extract the trimmed bounding box of each sprite's canonical frame (sprites.canonical_direction)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.library()
			if err != nil {
				return err
			}
			defer lib.Wait()
			boxes, err := a.boxCache()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range args {
				res := boxes.Get(cmd.Context(), name)
				fmt.Fprintln(out, res.String())
				if rec, ok := res.Record(); ok {
					fmt.Fprintf(out, "  anchor offset: %.4f, %.4f\n", rec.AnchorOffsetX, rec.AnchorOffsetY)
				}
			}
			return nil
		},
	}
}
