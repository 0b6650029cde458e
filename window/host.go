// Package window hosts the animation in a resizable desktop window.
//
// The window's logical size is its outside size, so one surface pixel is one device-independent
// window pixel. Each ebiten Update is one frame tick.
package window

import (
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
)

// Options configures a window session
type Options struct {
	Engine engine.Config
	Noise  noise.Source
	// Background shows through the translucent tiles
	Background render.RGB
	Width  int
	Height int
	Title  string
	Logger zerolog.Logger
}

// game adapts the driver to ebiten.Game
type game struct {
	log       zerolog.Logger
	driver    *engine.Driver
	loop      *engine.Loop
	container *engine.ObservableContainer
	surface   *Surface
	fill      color.NRGBA

	started bool
	// Layout may run off the update goroutine, the size is handed over atomically
	outside atomic.Uint64
}

func packSize(w, h int) uint64 {
	return uint64(uint32(w))<<32 | uint64(uint32(h))
}

func unpackSize(v uint64) (int, int) {
	return int(int32(v >> 32)), int(int32(v))
}

// Run opens the window and blocks until it is closed or Escape is pressed
func Run(opts Options) error {
	log := opts.Logger.With().Str("host", "window").Logger()
	g := &game{
		log:       log,
		driver:    engine.New(opts.Engine, opts.Noise, engine.WithLogger(log)),
		loop:      engine.NewLoop(opts.Engine.FrameRate, nil),
		container: engine.NewObservableContainer(opts.Width, opts.Height),
		surface:   &Surface{},
		fill:      opts.Background.WithAlpha(1).NRGBA(),
	}
	g.outside.Store(packSize(opts.Width, opts.Height))

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.Engine.FrameRate > 0 {
		ebiten.SetTPS(opts.Engine.FrameRate)
	}

	err := ebiten.RunGame(g)
	g.driver.Stop()
	log.Info().Uint64("frames", g.driver.Frames()).Msg("Window closed")
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run window")
	}
	return nil
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.container.SetSize(unpackSize(g.outside.Load()))

	if !g.started {
		g.started = true
		if err := g.driver.Start(g.surface, g.container, g.loop); err != nil {
			return err
		}
		w, h := g.container.Size()
		g.log.Info().Int("width", w).Int("height", h).Msg("Window host started")
	}
	if g.driver.State() != engine.StateRunning {
		return ebiten.Termination
	}

	g.loop.Tick()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(g.fill)
	if img := g.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.outside.Store(packSize(outsideWidth, outsideHeight))
	return outsideWidth, outsideHeight
}
