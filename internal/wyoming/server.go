package wyoming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// stopTimeout bounds how long Run waits for sessions to finish after
// their connections have been closed on shutdown.
const stopTimeout = 5 * time.Second

// SessionFunc handles one client session over rw until it returns.
type SessionFunc func(ctx context.Context, rw io.ReadWriter, log *slog.Logger)

// Server accepts Wyoming client connections on a URI-selected
// transport: tcp://host:port, unix://path, or stdio:// for a single
// session over standard streams.
type Server struct {
	uri string
	log *slog.Logger
}

// NewServer validates the URI and returns a server. The listener is
// not bound until Run.
func NewServer(uri string, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	scheme, _, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case "tcp", "unix", "stdio":
	default:
		return nil, fmt.Errorf("wyoming: unsupported URI scheme %q", scheme)
	}
	return &Server{uri: uri, log: logger.With("component", "server")}, nil
}

// Run serves sessions until ctx is cancelled. For socket transports it
// accepts connections in a loop, one goroutine per client; for stdio it
// runs a single session and returns when the client disconnects.
func (s *Server) Run(ctx context.Context, handle SessionFunc) error {
	scheme, addr, err := splitURI(s.uri)
	if err != nil {
		return err
	}

	if scheme == "stdio" {
		s.log.Info("serving on standard streams")
		done := make(chan struct{})
		go func() {
			defer close(done)
			handle(ctx, stdioReadWriter{}, s.log.With("conn_id", "stdio"))
		}()
		select {
		case <-done:
		case <-ctx.Done():
			// Unblock the session's pending read on stdin.
			os.Stdin.Close()
			select {
			case <-done:
			case <-time.After(stopTimeout):
				s.log.Warn("stdio session did not stop in time")
			}
		}
		return nil
	}

	if scheme == "unix" {
		// Stale socket from a previous run would fail the bind.
		if err := os.Remove(addr); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("wyoming: remove stale socket: %w", err)
		}
	}

	lis, err := net.Listen(scheme, addr)
	if err != nil {
		return fmt.Errorf("wyoming: bind %s: %w", s.uri, err)
	}
	s.log.Info("listener bound", "uri", s.uri, "addr", lis.Addr().String())

	// Live connections are closed on shutdown so sessions blocked in a
	// read return instead of keeping wg.Wait from ever finishing.
	var (
		mu    sync.Mutex
		conns = make(map[net.Conn]struct{})
	)
	go func() {
		<-ctx.Done()
		lis.Close()
		mu.Lock()
		for conn := range conns {
			conn.Close()
		}
		mu.Unlock()
	}()

	var wg sync.WaitGroup
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			s.log.Warn("accept failed", "error", err)
			continue
		}
		mu.Lock()
		if ctx.Err() != nil {
			mu.Unlock()
			conn.Close()
			break
		}
		conns[conn] = struct{}{}
		mu.Unlock()
		wg.Add(1)
		go func(conn net.Conn) {
			defer wg.Done()
			defer func() {
				conn.Close()
				mu.Lock()
				delete(conns, conn)
				mu.Unlock()
			}()
			connLog := s.log.With("conn_id", uuid.NewString(), "remote", conn.RemoteAddr().String())
			connLog.Debug("client connected")
			handle(ctx, conn, connLog)
			connLog.Debug("client disconnected")
		}(conn)
	}

	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		s.log.Warn("sessions did not stop in time")
	}
	if scheme == "unix" {
		os.Remove(addr)
	}
	return nil
}

// splitURI separates "tcp://host:port" into scheme and address.
func splitURI(uri string) (scheme, addr string, err error) {
	scheme, addr, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return "", "", fmt.Errorf("wyoming: invalid URI %q", uri)
	}
	return scheme, addr, nil
}

// stdioReadWriter joins stdin and stdout into one stream.
type stdioReadWriter struct{}

func (stdioReadWriter) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriter) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
