package batch

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"iso-asset-editor/internal/asset"
	"iso-asset-editor/internal/bbox"
	"iso-asset-editor/internal/bias"
	"iso-asset-editor/internal/settings"
	"iso-asset-editor/internal/store"
)

// Config holds all shared resources for a recalculation run.
type Config struct {
	Store *store.Store
	// Cache supplies bounding boxes. Each processed sprite is invalidated first so the
	// run always rescans its source image.
	Cache      *bbox.Cache
	Policy     bias.Policy
	Calculator bias.Calculator // zero value means bias.Legacy
	Workers    int

	// CreateAs is the asset type used for sprites without a document. Empty means such
	// sprites are reported as failures.
	CreateAs asset.AssetType

	Log              *zap.Logger
	ProgressInterval time.Duration
}

// Result holds the outcome of recalculating one sprite.
type Result struct {
	Name        string
	Type        asset.AssetType
	Success     bool
	Created     bool
	Error       string
	Bias        float64
	Original    image.Point
	BoundingBox *asset.SpriteBoundingBox
}

// Run recalculates bias and bounding box for every named sprite using a worker pool.
// Results are in the order of names. A cancelled ctx marks unprocessed sprites as failed.
func Run(ctx context.Context, cfg Config, names []string) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Calculator == (bias.Calculator{}) {
		cfg.Calculator = bias.Legacy
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 2 * time.Second
	}
	log := cfg.Log.Named("batch")

	if cfg.Cache == nil {
		// No way to scan anything; the stored documents stay as they are.
		results := make([]Result, len(names))
		for i, name := range names {
			results[i] = Result{Name: name, Error: bbox.ErrRendererUnavailable}
		}
		log.Warn("Recalculation skipped, no bounding box source", zap.Int("total", len(names)))
		return results
	}

	total := len(names)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Add(1)
	go func() {
		defer reporter.Done()
		ticker := time.NewTicker(cfg.ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("Recalculation progress",
						zap.Int64("processed", p),
						zap.Int("total", total),
						zap.Float64("sprites_per_sec", rate))
				}
			}
		}
	}()

	// Worker pool
	itemChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				if err := ctx.Err(); err != nil {
					results[idx] = Result{Name: names[idx], Error: err.Error()}
				} else {
					results[idx] = processItem(ctx, cfg, log, names[idx])
				}
				processed.Add(1)
			}
		}()
	}

	for i := range names {
		itemChan <- i
	}
	close(itemChan)

	wg.Wait()
	close(done)
	reporter.Wait()

	ok, failed := Summarize(results)
	log.Info("Recalculation finished",
		zap.Int("succeeded", ok),
		zap.Int("failed", failed),
		zap.Stringer("policy", cfg.Policy),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

// Summarize counts successes and failures.
func Summarize(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

func processItem(ctx context.Context, cfg Config, log *zap.Logger, name string) Result {
	res := Result{Name: name}

	var (
		b    asset.DirectionalBehavior
		info *store.AssetInfo
	)
	doc, err := cfg.Store.Load(name)
	switch {
	case err == nil:
		info = doc.Asset
		res.Type, b, err = doc.Behavior()
		if err != nil {
			res.Error = err.Error()
			return res
		}
	case errors.Is(err, store.ErrNotFound) && cfg.CreateAs != "":
		res.Type = cfg.CreateAs
		res.Created = true
		b = asset.NewDefaultBehavior(cfg.CreateAs, asset.ScopeShared)
	default:
		res.Error = err.Error()
		return res
	}

	cfg.Cache.Invalidate(name)
	ex := cfg.Cache.Get(ctx, name)
	if !ex.OK() {
		// The stored values stay as they are.
		log.Warn("Bounding box unavailable", zap.String("sprite", name), zap.String("reason", ex.Error))
		res.Error = ex.Error
		return res
	}
	rec, _ := ex.Record()

	b, err = settings.ApplyAll(b, res.Type, settings.RecalculateBias{
		Size:       ex.Original,
		Policy:     cfg.Policy,
		Calculator: cfg.Calculator,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}
	b, err = settings.ApplyAll(b, res.Type, settings.SetBoundingBox{Box: &rec})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	next := store.NewDocument(name, res.Type, b)
	next.Asset = info
	if _, err := cfg.Store.Save(next); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Original = ex.Original
	res.Bias = cfg.Calculator.Compute(ex.Original, cfg.Policy)
	res.BoundingBox = &rec
	return res
}
