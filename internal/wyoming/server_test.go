package wyoming

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestNewServerAcceptsSupportedSchemes(t *testing.T) {
	for _, uri := range []string{"tcp://0.0.0.0:10200", "unix:///tmp/streamer.sock", "stdio://"} {
		if _, err := NewServer(uri, nil); err != nil {
			t.Errorf("NewServer(%q) error: %v", uri, err)
		}
	}
}

func TestNewServerRejectsUnknownScheme(t *testing.T) {
	for _, uri := range []string{"udp://0.0.0.0:10200", "localhost:10200", ""} {
		if _, err := NewServer(uri, nil); err == nil {
			t.Errorf("NewServer(%q) succeeded, want error", uri)
		}
	}
}

func TestRunClosesIdleConnectionsOnCancel(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "streamer.sock")
	srv, err := NewServer("unix://"+sock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runDone := make(chan error, 1)
	go func() {
		runDone <- srv.Run(ctx, func(ctx context.Context, rw io.ReadWriter, log *slog.Logger) {
			if err := WriteEvent(rw, Event{Type: TypeInfo}); err != nil {
				return
			}
			for {
				if _, err := ReadEvent(rw); err != nil {
					return
				}
			}
		})
	}()

	var conn net.Conn
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, err = net.Dial("unix", sock)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	defer conn.Close()

	// The greeting proves the session goroutine is up and now blocked
	// reading from an idle client.
	if _, err := ReadEvent(conn); err != nil {
		t.Fatalf("read greeting: %v", err)
	}

	cancel()
	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation while a client was connected")
	}
}

func TestSplitURI(t *testing.T) {
	scheme, addr, err := splitURI("tcp://127.0.0.1:10200")
	if err != nil {
		t.Fatalf("splitURI error: %v", err)
	}
	if scheme != "tcp" || addr != "127.0.0.1:10200" {
		t.Errorf("splitURI = %q, %q", scheme, addr)
	}
}
