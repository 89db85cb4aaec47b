package main

import (
	"fmt"
	"image"
	"strconv"

	"github.com/spf13/cobra"

	"iso-asset-editor/internal/bias"
)

func newBiasCmd(a *app) *cobra.Command {
	var table string
	cmd := &cobra.Command{
		Use:   "bias <width> <height>",
		Short: "Compute the auto vertical bias for a sprite size under every rounding policy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := strconv.Atoi(args[0])
			if err != nil || w <= 0 {
				return fmt.Errorf("width %q must be a positive integer", args[0])
			}
			h, err := strconv.Atoi(args[1])
			if err != nil || h <= 0 {
				return fmt.Errorf("height %q must be a positive integer", args[1])
			}

			var calc bias.Calculator
			switch table {
			case "generic":
				calc = bias.Legacy
			case "tile":
				calc = bias.Asset
			default:
				return fmt.Errorf("unknown snap table %q (generic or tile)", table)
			}

			size := image.Pt(w, h)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "raw: %g\n", bias.RawBias(float64(w), float64(h)))
			for _, p := range []bias.Policy{bias.RoundDown, bias.RoundUp, bias.SnapToNearest} {
				mark := " "
				if p == a.cfg.Policy() {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-16s %g\n", mark, p.String()+":", calc.Compute(size, p))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "generic", "snap table: generic {36,196} or tile {44,204}")
	return cmd
}
