// Command tgw runs the Tool Gateway: an MCP stdio server that
// translates tool calls into Command Broker requests.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/remoteforge/scenebridge/internal/config"
	"github.com/remoteforge/scenebridge/internal/gateway"
	"github.com/remoteforge/scenebridge/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	appDir := os.Getenv("SCENEBRIDGE_CONFIG_DIR")
	if appDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir = "."
		}
		appDir = filepath.Join(configDir, "scenebridge")
	}
	os.MkdirAll(appDir, 0755)

	settings := config.FromEnv()
	if override, err := config.LoadOverrideFile(appDir); err == nil {
		settings = override
	}

	// The Tool Gateway logs to its own file under the same app
	// directory; stdout is reserved entirely for the JSON-RPC wire.
	if err := logger.Init(filepath.Join(appDir, "tgw"), settings.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize persistent logging: %v\n", err)
	}
	defer logger.Close()

	addr := os.Getenv("SCENEBRIDGE_CB_ADDR")
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", settings.Port)
	}

	client := gateway.NewCBClient(addr, 35*time.Second)
	if err := client.Probe(); err != nil {
		fmt.Fprintf(os.Stderr, "command broker not reachable at %s: %v\n", addr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := gateway.NewServer(client, os.Stdin, os.Stdout)
	logger.Infof("tool gateway ready, forwarding to command broker at %s", addr)

	if err := server.Serve(ctx); err != nil && err != context.Canceled {
		logger.Errorf("tool gateway stopped: %v", err)
		fmt.Fprintf(os.Stderr, "tool gateway stopped: %v\n", err)
		return 2
	}
	return 0
}
