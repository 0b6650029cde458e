package web

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/flowmosaic/engine"
	"github.com/lixenwraith/flowmosaic/noise"
)

const (
	// Time allowed to write a message to the peer
	writeWait = time.Second
	// Maximum message size allowed from peer
	maxMessageSize = 1024
	// Largest canvas a client may request per side
	maxCanvasSide = 8192
)

// errClientGone ends a session when the peer disconnects
var errClientGone = errors.New("client disconnected")

type size struct {
	width, height int
}

// session animates one websocket connection
// The animation goroutine owns the driver; the read and write pumps only exchange messages with it
type session struct {
	ws      *websocket.Conn
	log     zerolog.Logger
	cfg     engine.Config
	src     noise.Source
	surface *frameSurface
	resizes chan size
}

func newSession(ws *websocket.Conn, cfg engine.Config, src noise.Source, log zerolog.Logger) *session {
	return &session{
		ws:      ws,
		log:     log,
		cfg:     cfg,
		src:     src,
		surface: newFrameSurface(),
		resizes: make(chan size, 1),
	}
}

// run blocks until the client leaves or ctx ends, the connection is closed on return
func (s *session) run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.animate(groupCtx)
	})
	group.Go(func() error {
		return s.readMessages(groupCtx)
	})
	group.Go(func() error {
		return s.publish(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		_ = s.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return s.ws.Close()
	})

	err := group.Wait()
	if errors.Is(err, errClientGone) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *session) animate(ctx context.Context) error {
	frameRate := s.cfg.FrameRate
	if frameRate <= 0 {
		frameRate = engine.DefaultConfig().FrameRate
	}
	loop := engine.NewLoop(frameRate, nil)
	container := engine.NewObservableContainer(0, 0)
	driver := engine.New(s.cfg, s.src, engine.WithLogger(s.log))

	if err := driver.Start(s.surface, container, loop); err != nil {
		return err
	}
	defer func() {
		driver.Stop()
		s.log.Info().Uint64("frames", driver.Frames()).Msg("Session ended")
	}()

	ticks := channerics.NewTicker(ctx.Done(), time.Second/time.Duration(frameRate))
	for {
		select {
		case <-ctx.Done():
			return nil
		case sz := <-s.resizes:
			container.SetSize(sz.width, sz.height)
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			loop.Tick()
		}
	}
}

// readMessages forwards resize requests, any read error is permanent
func (s *session) readMessages(ctx context.Context) error {
	s.ws.SetReadLimit(maxMessageSize)
	for {
		var msg ClientMessage
		if err := s.ws.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil && !isClosure(err) {
				s.log.Debug().Err(err).Msg("Read failed")
			}
			return errClientGone
		}
		if msg.Type != TypeResize {
			continue
		}
		sz := size{width: clampSide(msg.Width), height: clampSide(msg.Height)}
		// Only the newest size matters
		select {
		case <-s.resizes:
		default:
		}
		select {
		case s.resizes <- sz:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *session) publish(ctx context.Context) error {
	for frame := range channerics.OrDone(ctx.Done(), s.surface.Frames()) {
		if err := s.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return errors.Wrap(err, "set write deadline")
		}
		if err := s.ws.WriteJSON(frame); err != nil {
			if ctx.Err() != nil || isClosure(err) {
				return errClientGone
			}
			return errors.Wrap(err, "publish frame")
		}
	}
	return nil
}

func clampSide(v int) int {
	return min(max(v, 0), maxCanvasSide)
}

func isClosure(err error) bool {
	return err != nil && websocket.IsCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived)
}
