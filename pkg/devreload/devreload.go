// Package devreload receives rebuilt bundles from the development server.
//
// The dev channel carries whole-bundle replacement only, never incremental
// patches, and has no effect on the snapshot/event protocol: a runtime that
// receives a new bundle tears down its engine and boots the new script.
package devreload

import (
	"context"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/go-drift/sprout/pkg/errors"
)

// EnvServer is the environment variable naming the dev server websocket
// URL (e.g. "ws://localhost:8123/reload").
const EnvServer = "SPROUT_DEV_SERVER"

// retryDelay is the pause between reconnection attempts.
const retryDelay = time.Second

// Listen checks EnvServer and, if set, starts a background goroutine that
// connects to the dev server and receives rebuilt bundles. Each bundle
// arrives on the returned channel; poll it from the runtime's event loop.
// If the variable is unset, the returned channel never produces a message.
//
// The goroutine reconnects after a delay on any failure and stops when ctx
// is cancelled.
func Listen(ctx context.Context) <-chan string {
	bundles := make(chan string, 1)

	url := os.Getenv(EnvServer)
	if url == "" {
		return bundles
	}

	go run(ctx, url, bundles)
	return bundles
}

func run(ctx context.Context, url string, bundles chan string) {
	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			errors.Report(&errors.Error{
				Op:   "devreload.Listen",
				Kind: errors.KindReload,
				Err:  err,
			})
			if !sleep(ctx, retryDelay) {
				return
			}
			continue
		}

		receive(ctx, conn, bundles)
		conn.Close()

		if !sleep(ctx, retryDelay) {
			return
		}
	}
}

// receive reads bundles until the connection breaks or ctx is cancelled.
func receive(ctx context.Context, conn *websocket.Conn, bundles chan string) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		select {
		case bundles <- string(data):
		case <-ctx.Done():
			return
		default:
			// The runtime has not consumed the previous bundle yet; only
			// the newest build matters, so drop the stale one.
			select {
			case <-bundles:
			default:
			}
			select {
			case bundles <- string(data):
			default:
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
