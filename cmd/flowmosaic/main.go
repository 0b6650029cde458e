package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/lixenwraith/flowmosaic/config"
	"github.com/lixenwraith/flowmosaic/headless"
	"github.com/lixenwraith/flowmosaic/logging"
	"github.com/lixenwraith/flowmosaic/noise"
	"github.com/lixenwraith/flowmosaic/terminal"
	"github.com/lixenwraith/flowmosaic/web"
	"github.com/lixenwraith/flowmosaic/window"
)

// terminalState is captured before tcell takes the tty so a crash can hand it back
var terminalState *term.State

// emergencyReset restores the tty and makes the cursor visible again
func emergencyReset(w io.Writer) {
	if terminalState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), terminalState)
	}
	// Reset attributes, leave alt screen, show cursor
	fmt.Fprint(w, "\x1b[0m\x1b[?1049l\x1b[?25h")
}

func main() {
	// Panic Recovery: covers the main goroutine; terminal host goroutines recover themselves
	// and return terminal.ErrCrashed after releasing the screen
	defer func() {
		if r := recover(); r != nil {
			emergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mFLOWMOSAIC CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, terminal.ErrCrashed) {
			emergencyReset(os.Stdout)
		}
		fmt.Fprintf(os.Stderr, "flowmosaic: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("flowmosaic", pflag.ContinueOnError)
	config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if show, _ := fs.GetBool("print-config"); show {
		return cfg.Dump(os.Stdout)
	}

	logger, closer, err := logging.Setup(logging.Options{
		Debug: cfg.Debug,
		Dir:   cfg.LogDir,
		Level: cfg.LogLevel,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("host", cfg.Host).Str("noise", cfg.Noise.Algorithm).Msg("Starting")

	switch cfg.Host {
	case config.HostTerminal:
		return runTerminal(ctx, cfg, logger)
	case config.HostWindow:
		src, err := noise.New(cfg.Noise, time.Now())
		if err != nil {
			return err
		}
		return window.Run(window.Options{
			Engine:     cfg.Engine(),
			Noise:      src,
			Background: cfg.BackgroundColor(),
			Width:      cfg.Window.Width,
			Height:     cfg.Window.Height,
			Title:      cfg.Window.Title,
			Logger:     logger,
		})
	case config.HostWeb:
		server := web.NewServer(web.Options{
			Addr:   cfg.Web.Addr,
			Engine: cfg.Engine(),
			NewSource: func() (noise.Source, error) {
				return noise.New(cfg.Noise, time.Now())
			},
			Logger: logger,
		})
		fmt.Fprintf(os.Stderr, "flowmosaic: serving on %s\n", cfg.Web.Addr)
		return server.ListenAndServe(ctx)
	case config.HostHeadless:
		src, err := noise.New(cfg.Noise, time.Now())
		if err != nil {
			return err
		}
		paths, err := headless.Render(ctx, headless.Options{
			Engine: cfg.Engine(),
			Noise:  src,
			Width:  cfg.Headless.Width,
			Height: cfg.Headless.Height,
			Frames: cfg.Headless.Frames,
			Format: cfg.Headless.Format,
			Output: cfg.Headless.Output,
			Scale:  cfg.Headless.Scale,
			Every:  cfg.Headless.Every,
			Logger: logger,
		})
		for _, p := range paths {
			fmt.Println(p)
		}
		return err
	}
	return errors.Wrapf(config.ErrInvalid, "unknown host %q", cfg.Host)
}

func runTerminal(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("terminal host needs a tty, try --host headless")
	}
	if state, err := term.GetState(int(os.Stdin.Fd())); err == nil {
		terminalState = state
	}

	src, err := noise.New(cfg.Noise, time.Now())
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	host := terminal.New(screen, terminal.Options{
		Engine:     cfg.Engine(),
		Noise:      src,
		Background: cfg.BackgroundColor(),
		Logger:     logger,
	})
	return host.Run(ctx)
}
