package devserver

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func startServer(t *testing.T) (*Server, int) {
	t.Helper()
	s := New(zap.NewNop())
	port, err := s.Start(0)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(s.Shutdown)
	return s, port
}

func dialReload(t *testing.T, port int) *websocket.Conn {
	t.Helper()
	url := fmt.Sprintf("ws://localhost:%d/reload", port)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readBundle(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("message type %d, want text", kind)
	}
	return string(data)
}

func TestServer_LateConnectionGetsCurrentBuild(t *testing.T) {
	s, port := startServer(t)
	s.Publish("bundle-v1")

	conn := dialReload(t, port)
	if got := readBundle(t, conn); got != "bundle-v1" {
		t.Errorf("late connection received %q, want the current build", got)
	}
}

func TestServer_PublishReachesConnectedRuntime(t *testing.T) {
	s, port := startServer(t)
	conn := dialReload(t, port)

	// No build exists yet, so nothing arrives on connect.
	s.Publish("bundle-v2")
	if got := readBundle(t, conn); got != "bundle-v2" {
		t.Errorf("received %q, want the published build", got)
	}

	s.Publish("bundle-v3")
	if got := readBundle(t, conn); got != "bundle-v3" {
		t.Errorf("received %q, want the replacement build", got)
	}
}

func TestServer_ConcurrentConnectAndPublish(t *testing.T) {
	s, port := startServer(t)
	s.Publish("0")

	published := make(chan struct{})
	go func() {
		defer close(published)
		for i := 1; i <= 50; i++ {
			s.Publish(strconv.Itoa(i))
		}
	}()

	// Runtimes connecting mid-burst each get the replay plus broadcasts.
	// Writes to one connection must be serialized, so every frame parses
	// and builds never go backwards.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url := fmt.Sprintf("ws://localhost:%d/reload", port)
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Errorf("dial: %v", err)
				return
			}
			defer conn.Close()

			last := -1
			for j := 0; j < 3; j++ {
				conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				v, err := strconv.Atoi(string(data))
				if err != nil {
					t.Errorf("corrupt frame %q", data)
					return
				}
				if v < last {
					t.Errorf("build went backwards: %d after %d", v, last)
					return
				}
				last = v
			}
		}()
	}
	wg.Wait()
	<-published
}

func TestServer_HealthEndpoint(t *testing.T) {
	_, port := startServer(t)

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", port))
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != `{"status":"ok"}` {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
}
