// Package engine drives a flow field animation against a raster surface.
//
// A Driver owns one session: it sizes a field to its container, paints every cell as a tile on each
// scheduler tick, rebuilds on container resize and tears down on Stop. All driver methods and
// callbacks are expected to run on the scheduler's goroutine.
package engine

import (
	"math"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/flowmosaic/field"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/render"
	"github.com/lixenwraith/flowmosaic/vmath"
)

var (
	// ErrSurfaceUnavailable aborts a session whose surface, container or scheduler is missing
	ErrSurfaceUnavailable = errors.New("engine: surface unavailable")
	// ErrAlreadyStarted is returned when Start is called outside the Idle state
	ErrAlreadyStarted = errors.New("engine: session already started")
)

// Secondary noise channel driving the pink/blue accent
const (
	secondaryScale     = 30
	secondaryTimeScale = 0.0002
)

// State is the session lifecycle: Idle → Running → Stopped
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Config sizes tiles and paces the field
type Config struct {
	TileSize  float64 `mapstructure:"tile_size" yaml:"tile_size"`
	TileRatio float64 `mapstructure:"tile_ratio" yaml:"tile_ratio"`
	// Frequency is passed to the field as is, where an unset 0 means 1
	Frequency float64 `mapstructure:"frequency" yaml:"frequency"`
	FrameRate int     `mapstructure:"frame_rate" yaml:"frame_rate"`
}

// DefaultConfig returns 40px square tiles at a slow drift
func DefaultConfig() Config {
	return Config{
		TileSize:  40,
		TileRatio: 1,
		Frequency: 0.1,
		FrameRate: 60,
	}
}

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the session logger
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Driver) {
		d.log = logger
	}
}

// WithMapper replaces the default color mapper
func WithMapper(m *render.Mapper) Option {
	return func(d *Driver) {
		if m != nil {
			d.mapper = m
		}
	}
}

// Driver is the animation session
type Driver struct {
	cfg    Config
	noise  noise.Source
	mapper *render.Mapper
	log    zerolog.Logger

	state     State
	surface   render.Surface
	container Container
	scheduler Scheduler

	field          *field.FlowField
	width, height  int
	scaleX, scaleY float64

	frame      FrameID
	last       float64
	ticked     bool
	frames     uint64
	disconnect func()
}

// New creates an idle driver sampling src
func New(cfg Config, src noise.Source, opts ...Option) *Driver {
	if cfg.TileSize <= 0 {
		cfg.TileSize = DefaultConfig().TileSize
	}
	if cfg.TileRatio <= 0 {
		cfg.TileRatio = DefaultConfig().TileRatio
	}
	d := &Driver{
		cfg:    cfg,
		noise:  src,
		mapper: render.NewMapper(),
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start builds the field and registers for frames and resizes
// A missing collaborator or noise source ends the session in Stopped with ErrSurfaceUnavailable
func (d *Driver) Start(surface render.Surface, container Container, scheduler Scheduler) error {
	if d.state != StateIdle {
		return ErrAlreadyStarted
	}
	if surface == nil || container == nil || scheduler == nil || d.noise == nil {
		d.state = StateStopped
		d.log.Warn().Msg("Session aborted, surface unavailable")
		return ErrSurfaceUnavailable
	}

	d.surface = surface
	d.container = container
	d.scheduler = scheduler
	d.state = StateRunning

	d.rebuild()
	d.disconnect = container.Observe(d.onResize)
	d.frame = scheduler.RequestFrame(d.tick)

	d.log.Info().
		Int("width", d.width).
		Int("height", d.height).
		Msg("Session started")
	return nil
}

// Stop cancels the pending frame and the resize observer, repeated calls are no-ops
func (d *Driver) Stop() {
	prev := d.state
	if prev == StateStopped {
		return
	}
	d.state = StateStopped
	if prev != StateRunning {
		return
	}

	d.scheduler.CancelFrame(d.frame)
	d.frame = 0
	if d.disconnect != nil {
		d.disconnect()
		d.disconnect = nil
	}
	d.log.Info().Uint64("frames", d.frames).Msg("Session stopped")
}

// State reports the lifecycle state
func (d *Driver) State() State { return d.state }

// Field returns the current field, nil before Start
func (d *Driver) Field() *field.FlowField { return d.field }

// Scale returns the tile size in surface pixels
func (d *Driver) Scale() (float64, float64) { return d.scaleX, d.scaleY }

// Size returns the surface size used by the last rebuild
func (d *Driver) Size() (int, int) { return d.width, d.height }

// Frames returns the number of completed ticks
func (d *Driver) Frames() uint64 { return d.frames }

func (d *Driver) onResize() {
	if d.state != StateRunning {
		return
	}
	d.rebuild()
}

// rebuild resizes the surface and replaces the field, old cell state is discarded
func (d *Driver) rebuild() {
	w, h := d.container.Size()
	w, h = max(w, 0), max(h, 0)
	d.width, d.height = w, h
	d.surface.Resize(w, h)

	cols := math.Ceil(float64(w) / d.cfg.TileSize)
	rows := math.Ceil(float64(h) / (d.cfg.TileSize * d.cfg.TileRatio))

	d.scaleX, d.scaleY = 0, 0
	if cols > 0 && rows > 0 {
		d.scaleX = float64(w) / cols
		d.scaleY = float64(h) / rows
	}

	f := field.New(cols, rows, d.noise, field.Config{Frequency: d.cfg.Frequency})
	f.OnCell(func(v *vmath.Vector, x, y int) {
		d.paint(f, v, x, y)
	})
	d.field = f

	d.log.Debug().
		Int("width", w).
		Int("height", h).
		Int("cols", f.Cols()).
		Int("rows", f.Rows()).
		Float64("scale_x", d.scaleX).
		Float64("scale_y", d.scaleY).
		Msg("Field rebuilt")
}

// paint runs once per cell during Update, (0,0) arrives first and clears the frame
func (d *Driver) paint(f *field.FlowField, v *vmath.Vector, x, y int) {
	if x == 0 && y == 0 {
		d.surface.Clear(0, 0, float64(d.width), float64(d.height))
	}
	secondary := d.noise.Sample(float64(x)/secondaryScale, float64(y)/secondaryScale, f.Time()*secondaryTimeScale)
	c := d.mapper.Map(*v, secondary)
	d.surface.FillRect(float64(x)*d.scaleX, float64(y)*d.scaleY, d.scaleX, d.scaleY, c)
}

func (d *Driver) tick(timestamp float64) {
	if d.state != StateRunning {
		return
	}
	delta := 0.0
	if d.ticked {
		delta = timestamp - d.last
	}
	d.ticked = true
	d.last = timestamp

	d.field.Update(delta)
	if p, ok := d.surface.(render.Presenter); ok {
		p.Present()
	}
	d.frames++

	d.frame = d.scheduler.RequestFrame(d.tick)
}
