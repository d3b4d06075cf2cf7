package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/go-drift/sprout/cmd/sprout/internal/bundler"
	"github.com/go-drift/sprout/cmd/sprout/internal/config"
	"github.com/go-drift/sprout/cmd/sprout/internal/devserver"
)

func init() {
	RegisterCommand(&Command{
		Name:  "dev",
		Short: "Watch an entry point and push rebuilt bundles to runtimes",
		Long: `Start the development server.

The entry point's directory is watched; on every change the bundle is
rebuilt (via dev.build from sprout.yaml, or by reading the entry file
verbatim) and pushed over a persistent websocket connection to every
connected runtime. A runtime that connects later immediately receives
the current build.

Runtimes subscribe by setting SPROUT_DEV_SERVER, for example:
  SPROUT_DEV_SERVER=ws://localhost:8123/reload

Flags:
  --port N   Port to listen on (default: dev.port from sprout.yaml, else 8123)`,
		Usage: "sprout dev <entry-point> [--port N]",
		Run:   runDev,
	})
}

func runDev(args []string) error {
	entry, port, err := parseDevArgs(args)
	if err != nil {
		return err
	}

	root, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return err
	}

	if entry == "" {
		entry = cfg.Dev.Entry
	}
	if entry == "" {
		return fmt.Errorf("entry point is required\n\nUsage: sprout dev <entry-point> [--port N]")
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(root, entry)
	}
	if port == 0 {
		port = cfg.Dev.Port
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := &bundler.Bundler{Entry: entry, Build: cfg.Dev.Build, Log: log}
	builds, err := b.Start(ctx)
	if err != nil {
		return err
	}

	server := devserver.New(log)
	actualPort, err := server.Start(port)
	if err != nil {
		return err
	}
	defer server.Shutdown()

	log.Info("dev server listening",
		zap.Int("port", actualPort),
		zap.String("url", fmt.Sprintf("ws://localhost:%d/reload", actualPort)))

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case bundle, ok := <-builds:
			if !ok {
				return nil
			}
			server.Publish(bundle)
		}
	}
}

// parseDevArgs extracts the entry-point positional and the optional --port
// flag. A missing value or non-numeric port is a usage error.
func parseDevArgs(args []string) (entry string, port int, err error) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--port":
			if i+1 >= len(args) {
				return "", 0, fmt.Errorf("--port requires a number")
			}
			i++
			port, err = parsePort(args[i])
			if err != nil {
				return "", 0, err
			}
		case strings.HasPrefix(arg, "--port="):
			port, err = parsePort(strings.TrimPrefix(arg, "--port="))
			if err != nil {
				return "", 0, err
			}
		case strings.HasPrefix(arg, "-"):
			return "", 0, fmt.Errorf("unknown flag %q\n\nUsage: sprout dev <entry-point> [--port N]", arg)
		default:
			if entry != "" {
				return "", 0, fmt.Errorf("unexpected argument %q", arg)
			}
			entry = arg
		}
	}
	return entry, port, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}
