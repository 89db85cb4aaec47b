package main

import (
	"fmt"
	"image"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/mathutil"
	"iso-asset-editor/internal/placement"
	"iso-asset-editor/internal/settings"
)

type resolveOutput struct {
	Sprite       string          `json:"sprite"`
	Type         asset.AssetType `json:"type"`
	Direction    string          `json:"direction"`
	Shared       bool            `json:"shared"`
	Frame        [2]int          `json:"frame"`
	GridPoint    mathutil.Vec2   `json:"gridPoint"`
	SpritePoint  mathutil.Vec2   `json:"spritePoint"`
	Trimmed      bool            `json:"trimmed"`
	SpritePixel  mathutil.Vec2   `json:"spritePixel"`
	VerticalBias float64         `json:"verticalBias"`
	WallOffset   mathutil.Vec2   `json:"wallOffset"`
	Anchor       mathutil.Vec2   `json:"anchor"`
	TopLeft      mathutil.Vec2   `json:"topLeft"`
	Size         mathutil.Vec2   `json:"size"`
	Scale        [2]float64      `json:"scale"`
	ZOffset      float64         `json:"zOffset"`
}

func newResolveCmd(a *app) *cobra.Command {
	var (
		dirName string
		cellX   int
		cellY   int
		z       int
	)
	cmd := &cobra.Command{
		Use:   "resolve <sprite>",
		Short: "Resolve the settings in effect for a direction and print the screen placement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			d, err := parseDirection(dirName, a.cfg.CanonicalDirection())
			if err != nil {
				return err
			}

			doc, err := a.store().Load(name)
			if err != nil {
				return err
			}
			t, b, err := doc.Behavior()
			if err != nil {
				return err
			}
			s, err := settings.Resolve(b, d)
			if err != nil {
				return err
			}
			if s.BoundingBox == nil {
				boxes, err := a.boxCache()
				if err != nil {
					return err
				}
				if rec, ok := boxes.Get(cmd.Context(), name).Record(); ok {
					s.BoundingBox = &rec
				}
			}
			if !cmd.Flags().Changed("z") && doc.Asset != nil {
				z = doc.Asset.ZLayer
			}

			var frame image.Point
			if img, err := a.frame(cmd.Context(), name, d); err == nil {
				frame = img.Bounds().Size()
			} else {
				a.log.Warn("Frame unavailable, using cached size", zap.String("sprite", name), zap.Error(err))
			}

			v, err := a.view()
			if err != nil {
				return err
			}

			p := placement.Place(placement.Input{
				Type:      t,
				Direction: d,
				Settings:  s,
				View:      v,
				Frame:     frame,
				Cell:      image.Pt(cellX, cellY),
				Z:         z,
			})

			res := resolveOutput{
				Sprite:       name,
				Type:         t,
				Direction:    d.String(),
				Shared:       b.Scope == asset.ScopeShared,
				Frame:        [2]int{frame.X, frame.Y},
				GridPoint:    p.Resolution.GridPoint,
				SpritePoint:  p.Resolution.SpritePoint,
				Trimmed:      p.Resolution.Bounds == asset.BoundsTrimmed,
				SpritePixel:  p.Resolution.SpritePixel,
				VerticalBias: s.VerticalBias(t),
				WallOffset:   p.Wall.Total,
				Anchor:       p.Anchor,
				TopLeft:      p.TopLeft,
				Size:         p.Size,
				Scale:        [2]float64{p.ScaleX, p.ScaleY},
				ZOffset:      p.ZOffset,
			}
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&dirName, "direction", "d", "", "direction (default: configured canonical direction)")
	f.IntVar(&cellX, "col", 0, "grid column")
	f.IntVar(&cellY, "row", 0, "grid row")
	f.IntVar(&z, "z", 0, "Z layer (default: the asset's stored layer)")
	return cmd
}
