package main

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bbox"
	"iso-asset-editor/internal/config"
	"iso-asset-editor/internal/observability"
	"iso-asset-editor/internal/scaling"
	"iso-asset-editor/internal/sprite"
	"iso-asset-editor/internal/store"
)

// app carries what every subcommand needs once the root pre-run has loaded config.
type app struct {
	cfgFile string
	flags   config.Flags

	cfg   *config.Config
	log   *zap.Logger
	lib   *sprite.Library
	boxes *bbox.Cache
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "isoedit",
		Short:         "Isometric asset positioning and anchoring tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./isoedit.yaml if present)")
	pf.StringVar(&a.flags.SpritesDir, "sprites", "", "sprite directory (default: auto-detect)")
	pf.StringVar(&a.flags.StoreDir, "store", "", "positioning document directory (default: <sprites>/positioning)")
	pf.StringVar(&a.flags.Policy, "policy", "", "bias rounding policy: round_down, round_up, snap_to_nearest")
	pf.IntVar(&a.flags.Workers, "workers", 0, "worker goroutines (default: NumCPU)")

	root.AddCommand(
		newBBoxCmd(a),
		newBiasCmd(a),
		newInitCmd(a),
		newResolveCmd(a),
		newRecalcCmd(a),
		newPreviewCmd(a),
		newScaleCmd(a),
		newSetCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	cfg.Resolve(a.flags)
	if err := cfg.Validate(); err != nil {
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}
	observability.InitializeLogger(cfg.Logger)
	a.cfg = cfg
	a.log = observability.GetLogger()
	return nil
}

func (a *app) store() *store.Store {
	return store.New(a.cfg.Store.Dir, a.log)
}

func (a *app) library() (*sprite.Library, error) {
	if a.lib != nil {
		return a.lib, nil
	}
	if a.cfg.Sprites.Dir == "" {
		return nil, fmt.Errorf("no sprite directory: use --sprites or sprites.dir")
	}
	idx := sprite.BuildIndex(a.cfg.Sprites.Dir)
	a.log.Debug("Sprites indexed", zap.String("dir", a.cfg.Sprites.Dir), zap.Int("count", idx.Len()))
	a.lib = sprite.NewLibrary(idx, a.log)
	return a.lib, nil
}

// boxCache scans the configured canonical facing and is shared by every command of a run.
func (a *app) boxCache() (*bbox.Cache, error) {
	if a.boxes != nil {
		return a.boxes, nil
	}
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	a.boxes = bbox.NewCache(lib, a.cfg.CanonicalDirection(), a.cfg.Retry.Delays)
	return a.boxes, nil
}

// invalidate drops decoded frames and the cached box of a sprite.
func (a *app) invalidate(name string) {
	if a.lib != nil {
		a.lib.Invalidate(name)
	}
	if a.boxes != nil {
		a.boxes.Invalidate(name)
	}
}

// frame decodes a sprite synchronously and returns one facing.
func (a *app) frame(ctx context.Context, name string, d asset.Direction) (*image.NRGBA, error) {
	lib, err := a.library()
	if err != nil {
		return nil, err
	}
	if err := lib.Warm(ctx, []string{name}, 1); err != nil {
		return nil, err
	}
	return lib.Frame(name, d)
}

// view loads the saved scaling state, seeding it from config when none was saved.
func (a *app) view() (scaling.ViewState, error) {
	v, err := a.store().LoadView()
	if errors.Is(err, store.ErrNotFound) {
		return seedView(a.cfg.View)
	}
	return v, err
}

// seedView makes the configured width and scale the base values.
func seedView(c config.ViewConfig) (scaling.ViewState, error) {
	v := scaling.NewViewState().SetRatioLocked(false)
	v, err := v.SetGridDiamondWidth(c.GridDiamondWidth)
	if err != nil {
		return v, err
	}
	if v, err = v.SetSpriteScale(c.SpriteScale); err != nil {
		return v, err
	}
	return v.SetRatioLocked(c.RatioLocked), nil
}

func parseDirection(s string, fallback asset.Direction) (asset.Direction, error) {
	if s == "" {
		return fallback, nil
	}
	return asset.ParseDirection(s)
}
