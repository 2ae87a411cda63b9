package export

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/goscene/internal/config"
	"github.com/philipparndt/goscene/pkg/animation"
	"github.com/philipparndt/goscene/pkg/canvas"
	"github.com/philipparndt/goscene/pkg/scene"
	"github.com/philipparndt/goscene/pkg/scenefile"
)

// epoch is the fixed clock offline animations run against
var epoch = time.Unix(0, 0).UTC()

// Options controls how scene files are turned into SVG
type Options struct {
	Config config.Config
	// ForceViewport applies the configured size even when a scene sets its own
	ForceViewport bool
	Logger        *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) svgOptions() (canvas.SVGOptions, error) {
	svgOpts := canvas.DefaultSVGOptions()
	bg, err := o.Config.BackgroundColor()
	if err != nil {
		return svgOpts, err
	}
	svgOpts.Background = bg
	return svgOpts, nil
}

// Build loads a scene file into an engine drawing to rec
func Build(path string, rec *canvas.Recorder, o Options) (*scenefile.Document, *scene.Engine, error) {
	doc, err := scenefile.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	opts, err := o.Config.EngineOptions(o.ForceViewport || doc.Viewport == nil)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, scene.WithLogger(o.logger()))
	engine, err := doc.Build(rec, opts...)
	if err != nil {
		return nil, nil, err
	}
	return doc, engine, nil
}

// OutputPath returns the SVG path for a scene: the scene name with an .svg
// extension, inside outDir when it is set
func OutputPath(scenePath, outDir string) string {
	base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath)) + ".svg"
	if outDir == "" {
		return base
	}
	return filepath.Join(outDir, filepath.Base(base))
}

// writeFrame writes one recorded frame to path
func writeFrame(path string, frame canvas.Frame, svgOpts canvas.SVGOptions) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return canvas.WriteSVG(file, frame, svgOpts)
}

// RenderFile renders the scene at path into the SVG file out
func RenderFile(path, out string, o Options) (scene.Stats, error) {
	svgOpts, err := o.svgOptions()
	if err != nil {
		return scene.Stats{}, err
	}
	rec := canvas.NewRecorder()
	_, engine, err := Build(path, rec, o)
	if err != nil {
		return scene.Stats{}, err
	}
	stats, err := engine.Render()
	if err != nil {
		return stats, err
	}
	if err := writeFrame(out, rec.Last(), svgOpts); err != nil {
		return stats, err
	}
	o.logger().Info("rendered",
		zap.String("scene", path),
		zap.String("out", out),
		zap.Int("faces", stats.Faces),
		zap.Int("culled", stats.Culled),
		zap.Int("lines", stats.Lines))
	return stats, nil
}

// RenderFiles renders several scenes concurrently. out maps a scene path to
// its SVG path. The first failure cancels the scenes not started yet.
func RenderFiles(ctx context.Context, paths []string, out func(string) string, o Options) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := RenderFile(path, out(path), o); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// FrameName returns the file name of frame i of an animation
func FrameName(i int) string {
	return fmt.Sprintf("frame_%04d.svg", i)
}

// Animate plays every animation of the scene at path and writes one SVG per
// frame at fps into outDir. A scene without animations yields one frame.
func Animate(ctx context.Context, path, outDir string, fps int, o Options) (int, error) {
	if fps <= 0 {
		return 0, fmt.Errorf("fps must be positive, got %d", fps)
	}
	svgOpts, err := o.svgOptions()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}

	rec := canvas.NewRecorder()
	doc, engine, err := Build(path, rec, o)
	if err != nil {
		return 0, err
	}
	frames := animation.NewManualFrames()
	animator := animation.New(engine, frames,
		animation.WithClock(func() time.Time { return epoch }),
		animation.WithLogger(o.logger()))
	anims, err := doc.Play(engine, animator)
	if err != nil {
		return 0, err
	}
	if _, err := engine.Render(); err != nil {
		return 0, err
	}

	interval := time.Second / time.Duration(fps)
	count := int(math.Ceil(float64(scenefile.Longest(anims))/float64(interval))) + 1
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		frames.Advance(epoch.Add(time.Duration(i) * interval))
		if err := animator.Err(); err != nil {
			return i, err
		}
		if err := writeFrame(filepath.Join(outDir, FrameName(i)), rec.Last(), svgOpts); err != nil {
			return i, err
		}
	}
	o.logger().Info("animation written", zap.String("scene", path), zap.Int("frames", count), zap.String("dir", outDir))
	return count, nil
}
