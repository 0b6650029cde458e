// Package headless renders a fixed number of frames to image files without a display
package headless

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
)

// Output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// ErrFormat reports an unknown output format
var ErrFormat = errors.New("unknown output format")

// Options configures a headless render
// Every is the write interval in frames, 0 writes only the last frame
type Options struct {
	Engine engine.Config
	Noise  noise.Source
	Width  int
	Height int
	Frames int
	Format string
	Output string
	Scale  int
	Every  int
	Logger zerolog.Logger
}

// frameSurface is what the renderer needs beyond painting
type frameSurface interface {
	render.Surface
	encode(scale int) ([]byte, error)
}

type pngSurface struct{ *render.ImageSurface }

func (s pngSurface) encode(scale int) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WritePNG(&buf, scale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type svgSurface struct{ *render.SVGSurface }

func (s svgSurface) encode(int) ([]byte, error) {
	var buf bytes.Buffer
	s.WriteSVG(&buf)
	return buf.Bytes(), nil
}

func newSurface(format string, width, height int) (frameSurface, error) {
	switch format {
	case FormatPNG, "":
		return pngSurface{render.NewImageSurface(width, height)}, nil
	case FormatSVG:
		return svgSurface{render.NewSVGSurface(width, height)}, nil
	default:
		return nil, errors.Wrapf(ErrFormat, "%q", format)
	}
}

// FrameName returns the file name of frame i
func FrameName(i int, format string) string {
	if format == "" {
		format = FormatPNG
	}
	return fmt.Sprintf("frame-%04d.%s", i, format)
}

// Render steps the animation on a simulated clock and writes the selected frames
// Returns the written paths in frame order
func Render(ctx context.Context, opts Options) ([]string, error) {
	if opts.Frames <= 0 {
		return nil, nil
	}
	surface, err := newSurface(opts.Format, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Output, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}

	frameRate := opts.Engine.FrameRate
	if frameRate <= 0 {
		frameRate = engine.DefaultConfig().FrameRate
	}
	interval := time.Second / time.Duration(frameRate)

	clockTime := engine.NewMockTimeProvider(time.Unix(0, 0))
	loop := engine.NewLoop(frameRate, engine.NewClock(clockTime))
	driver := engine.New(opts.Engine, opts.Noise, engine.WithLogger(opts.Logger))
	container := engine.StaticContainer{Width: opts.Width, Height: opts.Height}
	if err := driver.Start(surface, container, loop); err != nil {
		return nil, err
	}
	defer driver.Stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	var paths []string
	for i := 0; i < opts.Frames; i++ {
		if err := groupCtx.Err(); err != nil {
			_ = group.Wait()
			return paths, err
		}
		loop.Tick()
		clockTime.Advance(interval)

		if !shouldWrite(i, opts.Frames, opts.Every) {
			continue
		}
		data, err := surface.encode(opts.Scale)
		if err != nil {
			_ = group.Wait()
			return paths, err
		}
		path := filepath.Join(opts.Output, FrameName(i, opts.Format))
		paths = append(paths, path)
		group.Go(func() error {
			return errors.Wrapf(os.WriteFile(path, data, 0644), "write %s", path)
		})
	}

	if err := group.Wait(); err != nil {
		return paths, err
	}
	opts.Logger.Info().
		Int("frames", opts.Frames).
		Int("written", len(paths)).
		Str("output", opts.Output).
		Msg("Headless render complete")
	return paths, nil
}

func shouldWrite(i, frames, every int) bool {
	if every <= 0 {
		return i == frames-1
	}
	return i%every == 0 || i == frames-1
}
