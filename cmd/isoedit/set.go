package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/settings"
	"iso-asset-editor/internal/store"
)

func newSetCmd(a *app) *cobra.Command {
	var dirName string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Edit a sprite's positioning settings for one direction",
	}
	cmd.PersistentFlags().StringVarP(&dirName, "direction", "d", "", "direction (default: configured canonical direction)")

	// save writes b back, keeping the asset identity of the loaded document.
	save := func(cmd *cobra.Command, doc store.Document, t asset.AssetType, b asset.DirectionalBehavior, what string, d asset.Direction) error {
		next := store.NewDocument(doc.SpriteName, t, b)
		next.Asset = doc.Asset
		if _, err := a.store().Save(next); err != nil {
			return err
		}
		a.log.Info("Settings updated", zap.String("sprite", doc.SpriteName), zap.String("update", what), zap.Stringer("direction", d))
		scope := "shared"
		if b.Scope == asset.ScopePerDirection {
			scope = d.String()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s updated (%s)\n", doc.SpriteName, what, scope)
		return nil
	}

	// edit builds a subcommand that parses an update from the arguments after the sprite
	// name and applies it to the bundle in effect for the selected direction.
	edit := func(use, short string, nargs cobra.PositionalArgs, parse func(args []string) (settings.Update, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  nargs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := parseDirection(dirName, a.cfg.CanonicalDirection())
				if err != nil {
					return err
				}
				u, err := parse(args[1:])
				if err != nil {
					return err
				}
				doc, err := a.store().Load(args[0])
				if err != nil {
					return err
				}
				t, b, err := doc.Behavior()
				if err != nil {
					return err
				}
				if b, err = settings.Apply(b, t, d, u); err != nil {
					return err
				}
				return save(cmd, doc, t, b, u.String(), d)
			},
		}
	}

	cmd.AddCommand(
		edit("grid-anchor <sprite> <point> [x y]", "Select a named grid point, or custom with x y in [0,1]", cobra.RangeArgs(2, 4), func(args []string) (settings.Update, error) {
			u := settings.SetGridAnchor{Point: asset.GridAnchorPoint(args[0])}
			if u.Point == asset.GridCustom {
				v, err := floats(args[1:], 2)
				if err != nil {
					return nil, err
				}
				u.X, u.Y = v[0], v[1]
			}
			return u, nil
		}),
		edit("sprite-point <sprite> <point>", "Select one of the nine sprite anchor points", cobra.ExactArgs(2), func(args []string) (settings.Update, error) {
			return settings.SelectSpritePoint{Point: asset.SpriteAnchorPoint(args[0])}, nil
		}),
		edit("sprite-anchor <sprite> <x> <y>", "Set a custom sprite anchor in [0,1]", cobra.ExactArgs(3), func(args []string) (settings.Update, error) {
			v, err := floats(args, 2)
			if err != nil {
				return nil, err
			}
			return settings.SetSpriteAnchor{X: v[0], Y: v[1]}, nil
		}),
		edit("bounds <sprite> canvas|trimmed", "Measure the sprite anchor against the canvas or the trimmed box", cobra.ExactArgs(2), func(args []string) (settings.Update, error) {
			switch args[0] {
			case "canvas":
				return settings.SetAnchorBounds{Bounds: asset.BoundsCanvas}, nil
			case "trimmed":
				return settings.SetAnchorBounds{Bounds: asset.BoundsTrimmed}, nil
			}
			return nil, fmt.Errorf("unknown bounds %q", args[0])
		}),
		edit("restore-anchor <sprite>", "Restore the type's default anchors", cobra.ExactArgs(1), func([]string) (settings.Update, error) {
			return settings.RestoreAnchorDefaults{}, nil
		}),
		edit("bias <sprite> auto|manual [value]", "Use the auto-computed bias (tiles only) or a manual value", cobra.RangeArgs(2, 3), func(args []string) (settings.Update, error) {
			switch args[0] {
			case "auto":
				return settings.SetBiasSource{Source: asset.BiasAuto}, nil
			case "manual":
				if len(args) == 2 {
					v, err := floats(args[1:], 1)
					if err != nil {
						return nil, err
					}
					return settings.SetManualBias{Value: v[0]}, nil
				}
				return settings.SetBiasSource{Source: asset.BiasManual}, nil
			}
			return nil, fmt.Errorf("unknown bias source %q", args[0])
		}),
		edit("offsets <sprite> <horizontal> <vertical>", "Set the pixel offsets", cobra.ExactArgs(3), func(args []string) (settings.Update, error) {
			v, err := floats(args, 2)
			if err != nil {
				return nil, err
			}
			return settings.SetOffsets{Horizontal: v[0], Vertical: v[1]}, nil
		}),
		edit("scale <sprite> <x> [y]", "Set the sprite scale; y follows x when proportions are kept", cobra.RangeArgs(2, 3), func(args []string) (settings.Update, error) {
			v, err := floats(args, len(args))
			if err != nil {
				return nil, err
			}
			u := settings.SetScale{X: v[0], Y: v[0]}
			if len(v) == 2 {
				u.Y = v[1]
			}
			return u, nil
		}),
		edit("keep-proportions <sprite> on|off", "Tie the vertical scale to the horizontal one", cobra.ExactArgs(2), func(args []string) (settings.Update, error) {
			on, err := onOff(args[0])
			if err != nil {
				return nil, err
			}
			return settings.SetKeepProportions{Keep: on}, nil
		}),
		edit("appearance <sprite> <rotation> <alpha> <tint>", "Set rotation in degrees, alpha in [0,1] and an RGB hex tint", cobra.ExactArgs(4), func(args []string) (settings.Update, error) {
			v, err := floats(args[:2], 2)
			if err != nil {
				return nil, err
			}
			tint, err := strconv.ParseUint(strings.TrimPrefix(args[2], "#"), 16, 32)
			if err != nil {
				return nil, fmt.Errorf("tint %q: %w", args[2], err)
			}
			return settings.SetAppearance{Rotation: v[0], Alpha: v[1], Tint: uint32(tint)}, nil
		}),
		edit("wall <sprite> <along> <center> <a> <b>", "Set the edge-relative wall offsets", cobra.ExactArgs(5), func(args []string) (settings.Update, error) {
			v, err := floats(args, 4)
			if err != nil {
				return nil, err
			}
			return settings.SetWallOffsets{AlongEdge: v[0], TowardCenter: v[1], DiagonalA: v[2], DiagonalB: v[3]}, nil
		}),
		edit("wall-manual <sprite> <horizontal> <north-east> <north-west>", "Set the manual wall overrides", cobra.ExactArgs(4), func(args []string) (settings.Update, error) {
			v, err := floats(args, 3)
			if err != nil {
				return nil, err
			}
			return settings.SetManualWallOffsets{Horizontal: v[0], DiagonalNorthEast: v[1], DiagonalNorthWest: v[2]}, nil
		}),
		edit("division <sprite> none|halve-ne", "Halve the A magnitude on north and east facings", cobra.ExactArgs(2), func(args []string) (settings.Update, error) {
			switch args[0] {
			case "none":
				return settings.SetDiagonalDivision{Division: asset.DivisionNone}, nil
			case "halve-ne":
				return settings.SetDiagonalDivision{Division: asset.DivisionHalveNorthEast}, nil
			}
			return nil, fmt.Errorf("unknown division %q", args[0])
		}),
		edit("trimming <sprite> on|off", "Anchor walls against the trimmed sprite box", cobra.ExactArgs(2), func(args []string) (settings.Update, error) {
			on, err := onOff(args[0])
			if err != nil {
				return nil, err
			}
			if on {
				return settings.SetWallTrimming{Trimming: asset.TrimmingOn}, nil
			}
			return settings.SetWallTrimming{Trimming: asset.TrimmingOff}, nil
		}),
		edit("reset-wall <sprite>", "Restore the classic wall offsets", cobra.ExactArgs(1), func([]string) (settings.Update, error) {
			return settings.ResetWallDefaults{}, nil
		}),
		&cobra.Command{
			Use:   "scope <sprite> shared|per-direction",
			Short: "Switch between one shared bundle and one bundle per direction",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := parseDirection(dirName, a.cfg.CanonicalDirection())
				if err != nil {
					return err
				}
				var scope asset.SettingsScope
				switch args[1] {
				case "shared":
					scope = asset.ScopeShared
				case "per-direction":
					scope = asset.ScopePerDirection
				default:
					return fmt.Errorf("unknown scope %q", args[1])
				}
				doc, err := a.store().Load(args[0])
				if err != nil {
					return err
				}
				t, b, err := doc.Behavior()
				if err != nil {
					return err
				}
				if b, err = settings.SetScope(b, scope, d); err != nil {
					return err
				}
				return save(cmd, doc, t, b, "scope", d)
			},
		},
	)
	return cmd
}

// floats parses exactly n numbers.
func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, s := range args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func onOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}
