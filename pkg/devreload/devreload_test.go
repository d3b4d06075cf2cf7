package devreload

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestListen_UnsetEnvNeverProduces(t *testing.T) {
	t.Setenv(EnvServer, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundles := Listen(ctx)
	select {
	case bundle := <-bundles:
		t.Fatalf("received %q without a configured server", bundle)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListen_ReceivesBundles(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan *websocket.Conn, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/reload", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		received <- conn
	})

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	t.Setenv(EnvServer, fmt.Sprintf("ws://localhost:%d/reload", port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundles := Listen(ctx)

	var conn *websocket.Conn
	select {
	case conn = <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("runtime never connected")
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("bundle-v1")); err != nil {
		t.Fatal(err)
	}

	select {
	case bundle := <-bundles:
		if bundle != "bundle-v1" {
			t.Errorf("bundle = %q", bundle)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("bundle never arrived")
	}
}

func TestListen_KeepsNewestWhenUnconsumed(t *testing.T) {
	upgrader := websocket.Upgrader{}
	received := make(chan *websocket.Conn, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/reload", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		received <- conn
	})

	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	t.Setenv(EnvServer, fmt.Sprintf("ws://localhost:%d/reload", port))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundles := Listen(ctx)
	conn := <-received
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte("bundle-v1"))
	conn.WriteMessage(websocket.TextMessage, []byte("bundle-v2"))

	// Give the receiver time to process both messages before consuming.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case bundle := <-bundles:
			if bundle == "bundle-v2" {
				return
			}
			// v1 slipped through before v2 arrived; the next read must be v2.
		case <-deadline:
			t.Fatal("newest bundle never arrived")
		}
	}
}
