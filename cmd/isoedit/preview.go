package main

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iso-asset-editor/internal/anchor"
	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/preview"
	"iso-asset-editor/internal/settings"
	"iso-asset-editor/internal/store"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		dirName string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "preview <sprite>",
		Short: "Write a WebP showing the trimmed box and resolved sprite anchor of a frame",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			d, err := parseDirection(dirName, a.cfg.CanonicalDirection())
			if err != nil {
				return err
			}

			frame, err := a.frame(cmd.Context(), name, d)
			if err != nil {
				return err
			}
			size := frame.Bounds().Size()

			t := asset.Tile
			s := asset.DefaultSettings(t, d, asset.ScopeShared)
			doc, err := a.store().Load(name)
			switch {
			case err == nil:
				var b asset.DirectionalBehavior
				if t, b, err = doc.Behavior(); err != nil {
					return err
				}
				if s, err = settings.Resolve(b, d); err != nil {
					return err
				}
			case !errors.Is(err, store.ErrNotFound):
				return err
			}

			boxes, err := a.boxCache()
			if err != nil {
				return err
			}
			var box *image.Rectangle
			ex := boxes.Get(cmd.Context(), name)
			if rec, ok := ex.Record(); ok {
				box = ex.BoundingBox
				s.BoundingBox = &rec
			} else {
				a.log.Warn("Bounding box unavailable", zap.String("sprite", name), zap.String("reason", ex.Error))
			}
			res := anchor.Resolve(t, s, size)

			if outPath == "" {
				outPath = filepath.Join(a.cfg.Preview.OutputDir, fmt.Sprintf("%s_%s.webp", name, d))
			}
			img := preview.Render(frame, box, res, a.cfg.Preview.Zoom)
			if err := preview.WriteFile(outPath, img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: anchor %.1f,%.1f (%s) -> %s\n",
				name, res.SpritePixel[0], res.SpritePixel[1], boundsName(res.Bounds), outPath)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&dirName, "direction", "d", "", "direction (default: configured canonical direction)")
	f.StringVarP(&outPath, "out", "o", "", "output file (default: <preview dir>/<sprite>_<direction>.webp)")
	f.IntVar(&a.flags.Zoom, "zoom", 0, "integer upscale factor")
	return cmd
}

func boundsName(b asset.AnchorBounds) string {
	if b == asset.BoundsTrimmed {
		return "trimmed"
	}
	return "canvas"
}
