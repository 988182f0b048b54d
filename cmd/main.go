// TouchRelay - drive a remote pointer and keyboard from a touch client.
// Receiver service with system tray, plus a replay mode that exercises the
// full client pipeline against a running receiver.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/DeltaFoundry/TouchRelay/internal/autostart"
	"github.com/DeltaFoundry/TouchRelay/internal/command"
	"github.com/DeltaFoundry/TouchRelay/internal/config"
	"github.com/DeltaFoundry/TouchRelay/internal/gesture"
	"github.com/DeltaFoundry/TouchRelay/internal/input"
	"github.com/DeltaFoundry/TouchRelay/internal/netutil"
	"github.com/DeltaFoundry/TouchRelay/internal/observability"
	"github.com/DeltaFoundry/TouchRelay/internal/server"
	"github.com/DeltaFoundry/TouchRelay/internal/session"
	"github.com/DeltaFoundry/TouchRelay/internal/tray"
)

var (
	version    = "0.3.0"
	showVer    = flag.Bool("version", false, "Show version")
	configPath = flag.String("config", "", "Path to config file")
	listenAddr = flag.String("addr", "", "Receiver listen address (overrides config)")
	replayAddr = flag.String("replay", "", "Replay a synthetic gesture script against a receiver at host:port")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("touchrelay version %s\n", version)
		return
	}

	logger := observability.InitLogger("touchrelay")

	cfgMgr, err := config.NewManager(*configPath, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize config")
	}
	if err := cfgMgr.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load config")
	}

	if *replayAddr != "" {
		runReplay(cfgMgr, logger, *replayAddr)
		return
	}

	runService(cfgMgr, logger)
}

func runService(cfgMgr *config.Manager, logger zerolog.Logger) {
	logger.Info().Str("version", version).Msg("TouchRelay receiver starting")

	cfg := cfgMgr.Get()
	addr := cfg.ListenAddr
	if *listenAddr != "" {
		addr = *listenAddr
	}

	injector := input.NewLogInjector(logger.With().Str("component", "injector").Logger())
	srv := server.New(addr, injector, logger.With().Str("component", "server").Logger())

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("receiver failed")
		}
	}()

	endpoint := netutil.AdvertiseURL(addr)
	logger.Info().Str("endpoint", endpoint).Msg("connect your touch client here")

	t := tray.New("TouchRelay", "TouchRelay\n"+endpoint)

	t.AddMenuItem("Open Web Interface", func() {
		url := "http://" + strings.TrimSuffix(strings.TrimPrefix(endpoint, "ws://"), "/ws") + "/"
		if err := openBrowser(url); err != nil {
			logger.Error().Err(err).Msg("failed to open web interface")
		}
	})

	var startupID int
	startupID = t.AddMenuItem("Start at Login", func() {
		var err error
		if autostart.IsEnabled() {
			err = autostart.Disable()
		} else {
			err = autostart.Enable()
		}
		if err != nil {
			logger.Error().Err(err).Msg("failed to toggle start at login")
		}
		t.SetItemChecked(startupID, autostart.IsEnabled())
	})
	t.AddSeparator()

	t.AddMenuItem("About TouchRelay", func() {
		if err := openBrowser("https://github.com/DeltaFoundry/TouchRelay"); err != nil {
			logger.Error().Err(err).Msg("failed to open project page")
		}
	})

	t.AddSeparator()
	t.AddMenuItem("Quit", func() {
		t.Stop()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info().Msg("shutting down")
		t.Stop()
	}()

	t.Run()
	srv.Stop()
	logger.Info().Msg("TouchRelay stopped")
}

// runReplay drives the full client pipeline (translator -> session) with a
// synthetic gesture script, useful for checking a receiver end to end.
func runReplay(cfgMgr *config.Manager, logger zerolog.Logger, remote string) {
	cfg := cfgMgr.Get()
	endpoint := session.EndpointURL(remote, cfg.RemotePath, cfg.Secure)

	sess := session.New(endpoint, logger.With().Str("component", "session").Logger())
	sess.OnStatus(func(st session.Status) {
		logger.Info().Str("status", st.String()).Bool("connected", st.Connected()).
			Msg("session status")
	})
	sess.Start()
	defer sess.Close()

	if !waitConnected(sess, 10*time.Second) {
		logger.Fatal().Str("endpoint", endpoint).Msg("could not connect to receiver")
	}

	tr := gesture.NewTranslator(sess.Send, cfgMgr.MoveFactor, gesture.SystemClock(),
		logger.With().Str("component", "translator").Logger())

	src := newScriptedSource(logger)
	go src.play()
	tr.Run(src)

	// Give the pending single-tap timer room to commit.
	time.Sleep(300 * time.Millisecond)

	if !sess.Send(command.Text{Content: "hello from touchrelay"}) {
		logger.Warn().Msg("text not sent, session not connected")
	}
	if !sess.Send(command.Key{Name: "Return"}) {
		logger.Warn().Msg("key not sent, session not connected")
	}

	logger.Info().Msg("replay complete")
}

func waitConnected(sess *session.Session, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if sess.Status().Connected() {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// scriptedSource replays a fixed gesture sequence: a one-finger drag, a
// two-finger scroll, a double tap and a lone tap.
type scriptedSource struct {
	ch  chan gesture.Event
	log zerolog.Logger
}

func newScriptedSource(log zerolog.Logger) *scriptedSource {
	return &scriptedSource{ch: make(chan gesture.Event), log: log}
}

func (s *scriptedSource) Events() <-chan gesture.Event { return s.ch }

func (s *scriptedSource) play() {
	defer close(s.ch)

	emit := func(ev gesture.Event, pause time.Duration) {
		s.ch <- ev
		time.Sleep(pause)
	}

	s.log.Info().Msg("replaying one-finger drag")
	emit(gesture.Event{Type: gesture.EventPanStart, Pointers: 1}, 20*time.Millisecond)
	for i := 1; i <= 10; i++ {
		emit(gesture.Event{Type: gesture.EventPanMove, X: float64(i * 6), Y: float64(i * 2)}, 20*time.Millisecond)
	}
	emit(gesture.Event{Type: gesture.EventPanEnd}, 100*time.Millisecond)

	s.log.Info().Msg("replaying two-finger scroll")
	emit(gesture.Event{Type: gesture.EventPanStart, Pointers: 2}, 20*time.Millisecond)
	for i := 1; i <= 6; i++ {
		emit(gesture.Event{Type: gesture.EventPanMove, X: 0, Y: float64(i * 15)}, 20*time.Millisecond)
	}
	emit(gesture.Event{Type: gesture.EventPanEnd}, 100*time.Millisecond)

	s.log.Info().Msg("replaying double tap")
	emit(gesture.Event{Type: gesture.EventTap}, 100*time.Millisecond)
	emit(gesture.Event{Type: gesture.EventTap}, 300*time.Millisecond)

	s.log.Info().Msg("replaying lone tap")
	emit(gesture.Event{Type: gesture.EventTap}, 0)
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("cmd", "/c", "start", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
