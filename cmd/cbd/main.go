// Command cbd runs the Command Broker: a TCP JSON command server
// standing in for the host application's embedded network endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/remoteforge/scenebridge/internal/broker"
	"github.com/remoteforge/scenebridge/internal/config"
	"github.com/remoteforge/scenebridge/internal/exec"
	"github.com/remoteforge/scenebridge/internal/host/sim"
	"github.com/remoteforge/scenebridge/internal/logger"
	"github.com/remoteforge/scenebridge/internal/store"
)

// daemon wraps the Broker with the idempotent Start/Status behavior
// pulled from the original implementation's service manager (a second
// Start call while already running is a no-op, not an error).
type daemon struct {
	mu      sync.Mutex
	running bool
	broker  *broker.Broker
	cancel  context.CancelFunc
}

func (d *daemon) Status() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *daemon) Start(ctx context.Context, b *broker.Broker, addr string) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		logger.Infof("command broker already running, ignoring duplicate start request")
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.broker = b
	d.cancel = cancel
	d.running = true
	d.mu.Unlock()

	errCh := make(chan error, 1)
	go func() { errCh <- b.ListenAndServe(runCtx, addr) }()

	select {
	case err := <-errCh:
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		return err
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func (d *daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.broker.Shutdown()
	d.running = false
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	appDir := os.Getenv("SCENEBRIDGE_CONFIG_DIR")
	if appDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		appDir = filepath.Join(configDir, "scenebridge")
	}
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return fmt.Errorf("failed to create app dir: %w", err)
	}

	settings := config.FromEnv()
	if override, err := config.LoadOverrideFile(appDir); err == nil {
		settings = override
	}

	if err := logger.Init(appDir, settings.LogLevel); err != nil {
		fmt.Printf("warning: failed to initialize persistent logging: %v\n", err)
	}
	defer logger.Close()

	logger.Infof("=== Command Broker starting (port %d) ===", settings.Port)

	sceneGraph := sim.NewSceneGraph("Scene")
	renderer := sim.NewViewportRenderer(filepath.Join(appDir, "renders"), false)
	interp := sim.NewInterpreter()
	persist := store.New()
	facade := store.NewFacade(persist)
	interp.SetGlobal("persist", facade)

	scheduler := sim.NewScheduler(broker.QueueDepth)
	serializer := broker.NewSerializer(scheduler, broker.DefaultAdmissionTimeout, broker.DefaultJobTimeout, broker.HardJobTimeout)
	registry := broker.NewDefaultRegistry()

	d := &daemon{}
	deps := &broker.Deps{
		Scene:    sceneGraph,
		Renderer: renderer,
		Exec:     exec.New(interp),
		Store:    persist,
		RequestShutdown: func() {
			logger.Infof("shutdown requested via server_shutdown command")
			go d.Stop()
		},
	}

	b := broker.New(registry, serializer, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(ctx)

	addr := fmt.Sprintf("127.0.0.1:%d", settings.Port)
	if !settings.StartNow {
		logger.Infof("BLD_REMOTE_MCP_START_NOW is false; waiting for shutdown signal without binding a listener")
		<-ctx.Done()
		return nil
	}

	if err := d.Start(ctx, b, addr); err != nil {
		return fmt.Errorf("command broker failed to start: %w", err)
	}
	logger.Infof("command broker listening on %s", addr)

	<-ctx.Done()
	logger.Infof("shutting down command broker")
	d.Stop()
	return nil
}
