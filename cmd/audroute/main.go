// SPDX-License-Identifier: EPL-2.0

// Command audroute runs the routing engine as a daemon. Processes are
// mapped over the control socket or the /control websocket, the mix is
// produced on a clock (or by the audio device) and can be recorded to
// WAV or heard on /listen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ik5/audroute"
	"github.com/ik5/audroute/audio"
	"github.com/ik5/audroute/formats/wav"
	"github.com/ik5/audroute/internal/config"
	"github.com/ik5/audroute/internal/control"
	"github.com/ik5/audroute/internal/output"
	"github.com/ik5/audroute/internal/stream"
	"github.com/ik5/audroute/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "audroute:", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "YAML configuration file (built-in defaults when empty)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}

	log, err := config.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	eng, err := router.New(cfg.Engine.Router(),
		router.WithLogger(log),
		router.WithClearOnUnregister(cfg.Engine.ClearOnUnregister),
		router.WithReclaimInactive(cfg.Engine.ReclaimInactive),
	)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	rc := eng.Config()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub, err := newHub(cfg, rc)
	if err != nil {
		return err
	}
	defer hub.Close()

	clk := output.NewClock(eng, rc.BufferFrames, rc.CyclePeriod(), log.With("component", "clock"))
	clk.AddSink(hub)

	if cfg.Output.Record != "" {
		rec, err := openRecorder(cfg.Output.Record, rc.SampleRate)
		if err != nil {
			return err
		}
		defer rec.Close()

		var sink output.FrameSink = rec
		if cfg.Output.StopOnSilence > 0 {
			sink = output.NewSilenceStop(rec, cfg.Output.SilenceDB, cfg.Output.StopOnSilence, rc.SampleRate)
		}
		clk.AddSink(sink)
	}

	if cfg.Output.Device {
		dev, err := output.OpenDevice(eng, rc.SampleRate, rc.BufferFrames, log.With("component", "device"))
		if err != nil {
			return fmt.Errorf("open output device: %w", err)
		}
		defer dev.Close()

		if err := dev.Start(); err != nil {
			return err
		}
	}

	// Every goroutine below stops on ctx or on its server's Close, and
	// must be gone before the sinks above are closed.
	var wg sync.WaitGroup
	defer func() {
		stop()
		wg.Wait()
	}()

	errs := make(chan error, 1)
	fail := func(err error) {
		select {
		case errs <- err:
		default:
		}
		stop()
	}

	// With the device enabled it pulls its own cycles. The clock still
	// drives the recorder and listeners, so they see separate Produce
	// calls over the same buffers.
	wg.Go(func() {
		if err := clk.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
	})

	reg := audroute.NewRegistry()
	for _, fc := range cfg.Feeds {
		if err := startFeed(ctx, &wg, eng, reg, fc, log); err != nil {
			return err
		}
	}

	if cfg.Control.Socket != "" {
		srv := control.NewServer(eng, log.With("component", "control"))
		defer srv.Close()

		wg.Go(func() {
			if err := srv.ListenAndServe(cfg.Control.Socket); err != nil {
				fail(fmt.Errorf("control socket: %w", err))
			}
		})
	}

	if cfg.HTTP.Listen != "" {
		httpSrv := newHTTPServer(cfg.HTTP.Listen, eng, hub, rc, log)
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(sctx); err != nil {
				log.Warn("http shutdown", "error", err)
			}
		}()

		wg.Go(func() {
			log.Info("http listening", "addr", cfg.HTTP.Listen)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fail(fmt.Errorf("http server: %w", err))
			}
		})
	}

	log.Info("audroute running",
		"channels", rc.Channels,
		"sample_rate", rc.SampleRate,
		"buffer_frames", rc.BufferFrames,
		"socket", cfg.Control.Socket,
		"codec", hub.Codec(),
	)

	<-ctx.Done()
	log.Info("shutting down")

	select {
	case err := <-errs:
		return err
	default:
		return nil
	}
}

func newHub(cfg config.Config, rc router.Config) (*stream.Hub, error) {
	enc, err := stream.NewEncoder(cfg.Stream.Codec, rc.SampleRate, cfg.Stream.Bitrate)
	if err != nil {
		return nil, fmt.Errorf("stream encoder: %w", err)
	}

	return stream.NewHub(enc, rc.SampleRate), nil
}

func newHTTPServer(addr string, eng *router.Engine, hub *stream.Hub, rc router.Config, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/control", control.NewWSHandler(eng, log.With("component", "ws")))
	mux.Handle("/listen", stream.NewListenHandler(hub, rc.SampleRate, log.With("component", "listen")))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.Background()
		},
	}
}

// recorder owns the file under a wav.Writer.
type recorder struct {
	*wav.Writer
	file *os.File
}

func openRecorder(path string, sampleRate int) (*recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}

	return &recorder{Writer: wav.NewWriter(f, sampleRate, 1), file: f}, nil
}

func (r *recorder) Close() error {
	werr := r.Writer.Close()
	if err := r.file.Close(); err != nil && werr == nil {
		werr = err
	}

	return werr
}

func startFeed(ctx context.Context, wg *sync.WaitGroup, eng *router.Engine, reg *audio.Registry, fc config.FeedConfig, log *slog.Logger) error {
	src, err := reg.Open(fc.Path)
	if err != nil {
		return fmt.Errorf("feed %s: %w", fc.Path, err)
	}

	flog := log.With("component", "feed", "pid", fc.PID, "path", fc.Path)
	opts := []audroute.FeederOption{audroute.WithFeederLogger(flog)}
	if fc.Loop {
		opts = append(opts, audroute.WithLoop(func() (audio.Source, error) {
			return reg.Open(fc.Path)
		}))
	}

	feed, err := audroute.NewFeeder(eng, fc.PID, src, opts...)
	if err != nil {
		src.Close()
		return fmt.Errorf("feed %s: %w", fc.Path, err)
	}

	if err := eng.Register(fc.PID, fc.Channel); err != nil {
		feed.Close()
		return fmt.Errorf("feed %s: %w", fc.Path, err)
	}

	wg.Go(func() {
		defer feed.Close()
		defer eng.Unregister(fc.PID)

		err := feed.Run(ctx, eng.Config().CyclePeriod())
		if err != nil && !errors.Is(err, context.Canceled) {
			flog.Error("feed stopped", "error", err)
		}
	})

	flog.Info("feed started", "channel", fc.Channel, "loop", fc.Loop)

	return nil
}
