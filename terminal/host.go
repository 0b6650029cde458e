package terminal

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
)

// ErrCrashed wraps a panic recovered from the animation loop or the event pump
var ErrCrashed = errors.New("terminal host crashed")

// Options configures a terminal session
type Options struct {
	Engine     engine.Config
	Noise      noise.Source
	Background render.RGB
	Logger     zerolog.Logger
}

// Host runs one animation session on a tcell screen
type Host struct {
	screen tcell.Screen
	opts   Options
	log    zerolog.Logger

	container *engine.ObservableContainer
	surface   *Surface
	loop      *engine.Loop
	driver    *engine.Driver
	started   chan struct{}
	fini      sync.Once
}

// New prepares a host, the screen is initialized by Run
func New(screen tcell.Screen, opts Options) *Host {
	return &Host{
		screen:  screen,
		opts:    opts,
		log:     opts.Logger.With().Str("host", "terminal").Logger(),
		loop:    engine.NewLoop(opts.Engine.FrameRate, nil),
		started: make(chan struct{}),
	}
}

// Started is closed once the screen is initialized and the session is running
func (h *Host) Started() <-chan struct{} {
	return h.started
}

// Run animates until ctx ends or the user quits, the screen is finalized on return
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	h.screen.HideCursor()
	h.screen.Clear()

	w, hgt := h.screen.Size()
	h.container = engine.NewObservableContainer(w, hgt)
	h.surface = NewSurface(h.screen, h.opts.Background)
	h.driver = engine.New(h.opts.Engine, h.opts.Noise, engine.WithLogger(h.log))

	if err := h.driver.Start(h.surface, h.container, h.loop); err != nil {
		h.finiScreen()
		return err
	}
	h.log.Info().Int("width", w).Int("height", hgt).Msg("Terminal host started")
	close(h.started)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(h.guard(func() error {
		defer h.shutdown()
		err := h.loop.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return err
	}))

	g.Go(h.guard(func() error {
		for {
			switch ev := h.screen.PollEvent().(type) {
			case nil:
				return nil
			case *tcell.EventResize:
				w, hgt := ev.Size()
				h.loop.Post(func() {
					h.screen.Sync()
					h.container.SetSize(w, hgt)
				})
			case *tcell.EventKey:
				if isQuit(ev) {
					cancel()
					return nil
				}
			}
		}
	}))

	return g.Wait()
}

// shutdown stops the driver and releases the screen, it runs on the loop goroutine
func (h *Host) shutdown() {
	h.driver.Stop()
	h.finiScreen()
	h.log.Info().Uint64("frames", h.driver.Frames()).Msg("Terminal host stopped")
}

func (h *Host) finiScreen() {
	h.fini.Do(h.screen.Fini)
}

// guard turns a panic in a host goroutine into ErrCrashed after handing the tty back
// Finalizing the screen also unblocks PollEvent, so the sibling goroutine exits
func (h *Host) guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				h.finiScreen()
				h.log.Error().Interface("panic", r).Msg("Terminal host crashed")
				err = errors.Wrapf(ErrCrashed, "%v\n%s", r, debug.Stack())
			}
		}()
		return fn()
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
