package driver

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"limitbook/internal/textproto"
)

const (
	defaultNWorkers     = 10
	defaultReadTimeout  = 30 * time.Second
	clientMessageBuffer = 64
)

// clientLine links one parsed line to the session that sent it, so a
// reply can be routed back to the right connection.
type clientLine struct {
	sessionID string
	conn      net.Conn
	line      string
}

// Server exposes the textual front-end (§6.2) over TCP. Connections are
// accepted continuously and up to defaultNWorkers of them are read from
// concurrently by the WorkerPool (further ones wait in its task queue), but
// every line is funneled through a single
// applyLoop goroutine before it reaches the Book, preserving the
// single-writer discipline §5 requires of the core.
type Server struct {
	addr string
	d    *Driver
	log  zerolog.Logger

	pool     WorkerPool
	incoming chan clientLine
}

// NewServer builds a Server around an existing Driver. The Driver's Out
// is ignored for trade/PRINT rendering over TCP; each connection gets its
// own writer instead.
func NewServer(addr string, d *Driver, log zerolog.Logger) *Server {
	return &Server{
		addr:     addr,
		d:        d,
		log:      log,
		pool:     NewWorkerPool(defaultNWorkers, log),
		incoming: make(chan clientLine, clientMessageBuffer),
	}
}

// Run accepts connections and serves them until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	t, ctx := tomb.WithContext(ctx)

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("driver: listen %s: %w", s.addr, err)
	}
	defer listener.Close()

	t.Go(func() error {
		s.pool.Setup(t, s.handleConnection)
		return nil
	})
	t.Go(func() error {
		return s.applyLoop(t)
	})

	s.log.Info().Str("addr", s.addr).Msg("driver server listening")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return t.Wait()
			default:
				s.log.Error().Err(err).Msg("accept failed")
				continue
			}
		}
		s.pool.AddTask(conn)
	}
}

// applyLoop is the only goroutine that ever touches s.d.Book, turning the
// Server's concurrency into the sequential stream of calls the Book
// contract demands.
func (s *Server) applyLoop(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			return nil
		case cl := <-s.incoming:
			s.handleLine(cl)
		}
	}
}

func (s *Server) handleLine(cl clientLine) {
	w := bufio.NewWriter(cl.conn)
	defer w.Flush()

	prevOut := s.d.Out
	s.d.Out = w
	defer func() { s.d.Out = prevOut }()

	events, err := textproto.ParseAll(strings.NewReader(cl.line))
	if err != nil {
		s.log.Warn().Str("session", cl.sessionID).Err(err).Msg("malformed record")
		fmt.Fprintf(w, "ERR %v\n", err)
		return
	}
	for _, ev := range events {
		if err := s.d.Apply(ev); err != nil {
			fmt.Fprintf(w, "ERR %v\n", err)
		}
	}
}

// handleConnection owns a connection for its entire lifetime: it reads
// and dispatches every line the client sends until EOF, a read error, or
// pool shutdown. One pool worker is tied up per live connection, which is
// why the pool is sized generously relative to expected concurrent
// sessions.
func (s *Server) handleConnection(t *tomb.Tomb, task any) error {
	conn, ok := task.(net.Conn)
	if !ok {
		return fmt.Errorf("driver: unexpected task type %T", task)
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	s.log.Info().Str("session", sessionID).Str("remote", conn.RemoteAddr().String()).Msg("session started")

	reader := bufio.NewReader(conn)
	for {
		conn.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		line, err := reader.ReadString('\n')
		if line != "" {
			select {
			case <-t.Dying():
				return nil
			case s.incoming <- clientLine{sessionID: sessionID, conn: conn, line: line}:
			}
		}
		if err != nil {
			s.log.Debug().Str("session", sessionID).Err(err).Msg("session ended")
			return nil
		}

		select {
		case <-t.Dying():
			return nil
		default:
		}
	}
}
