package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/batch"
	"iso-asset-editor/internal/bias"
)

func newRecalcCmd(a *app) *cobra.Command {
	var (
		reportPath string
		allSprites bool
		createAs   string
	)
	cmd := &cobra.Command{
		Use:   "recalc [sprite...]",
		Short: "Recompute auto bias and bounding boxes, e.g. after a rounding policy change",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.store()
			lib, err := a.library()
			if err != nil {
				return err
			}
			defer lib.Wait()

			names := args
			switch {
			case len(names) > 0:
			case allSprites:
				names = lib.Index().Names()
			default:
				if names, err = st.List(); err != nil {
					return err
				}
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sprites to recalculate.")
				return nil
			}

			var create asset.AssetType
			if createAs != "" {
				if create, err = asset.ParseAssetType(createAs); err != nil {
					return err
				}
			}

			boxes, err := a.boxCache()
			if err != nil {
				return err
			}
			results := batch.Run(cmd.Context(), batch.Config{
				Store:      st,
				Cache:      boxes,
				Policy:     a.cfg.Policy(),
				Calculator: bias.Legacy,
				Workers:    a.cfg.Batch.Workers,
				CreateAs:   create,
				Log:        a.log,
			}, names)

			out := cmd.OutOrStdout()
			for _, r := range results {
				if !r.Success {
					fmt.Fprintf(out, "FAIL %s: %s\n", r.Name, r.Error)
				}
			}
			ok, failed := batch.Summarize(results)
			fmt.Fprintf(out, "Recalculated %d sprites (%d failed), policy %s\n", ok, failed, a.cfg.Policy())

			if reportPath != "" {
				if err := batch.WriteReport(reportPath, batch.NewReport(a.cfg.Policy(), results)); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&reportPath, "report", "", "write a JSON report to this path")
	f.BoolVar(&allSprites, "all-sprites", false, "process every indexed sprite instead of every stored document")
	f.StringVar(&createAs, "create-as", "", "asset type for sprites without a document (default: skip them)")
	return cmd
}
