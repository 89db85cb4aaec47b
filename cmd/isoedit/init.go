package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/batch"
	"iso-asset-editor/internal/bias"
	"iso-asset-editor/internal/store"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		typeName     string
		category     string
		perDirection bool
		force        bool
		zLayer       int
	)
	cmd := &cobra.Command{
		Use:   "init <sprite>...",
		Short: "Create positioning documents with type defaults, then compute bias and bounding box",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := asset.ParseAssetType(typeName)
			if err != nil {
				return err
			}
			scope := asset.ScopeShared
			if perDirection {
				scope = asset.ScopePerDirection
			}

			st := a.store()
			out := cmd.OutOrStdout()
			for _, name := range args {
				def := asset.NewDefinition(name, category, t, name)
				prev, err := st.Load(name)
				switch {
				case err == nil && !force:
					return fmt.Errorf("%s already has a document (use --force to overwrite)", name)
				case err == nil:
					// Same asset, new source image: keep the identity, drop cached scans.
					if prev.Asset != nil && prev.Asset.ID != "" {
						def.ID = prev.Asset.ID
					}
					a.invalidate(name)
				case !errors.Is(err, store.ErrNotFound):
					return err
				}

				def.Behavior = asset.NewDefaultBehavior(t, scope)
				def.ZLayer = zLayer
				if def = def.Validate(); !def.IsValid {
					for _, e := range def.Errors {
						fmt.Fprintf(out, "%s: warning: %s\n", name, e)
					}
				}
				if _, err := st.Save(store.NewAssetDocument(def)); err != nil {
					return err
				}
				a.log.Info("Document created", zap.String("sprite", name), zap.String("type", string(t)), zap.String("id", def.ID))
			}

			lib, err := a.library()
			if err != nil {
				return err
			}
			defer lib.Wait()
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
				Log:        a.log,
			}, args)
			for _, r := range results {
				if r.Success {
					fmt.Fprintf(out, "%s: %s, bias %g\n", r.Name, r.Type, r.Bias)
				} else {
					fmt.Fprintf(out, "%s: defaults kept (%s)\n", r.Name, r.Error)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&typeName, "type", string(asset.Tile), "asset type: tile, wall or stair")
	f.StringVar(&category, "category", "uncategorized", "asset category")
	f.BoolVar(&perDirection, "per-direction", false, "start with one settings bundle per direction")
	f.BoolVar(&force, "force", false, "overwrite existing documents")
	f.IntVar(&zLayer, "z", 0, "Z layer the asset is placed on")
	return cmd
}
