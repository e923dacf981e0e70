package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

const (
	// DefaultHistory is the number of ticks kept when none is configured.
	DefaultHistory = 120

	writeTimeout = 5 * time.Second
	sendBuffer   = 64
)

// Option configures an Inspector.
type Option func(*Inspector)

// WithHistory sets how many ticks are kept for /frames.
func WithHistory(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.history = make([]fastdom.FlushStats, n)
		}
	}
}

// WithGatherer serves /metrics from g.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(i *Inspector) {
		i.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithCheckOrigin sets the websocket origin check.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(i *Inspector) {
		i.upgrader.CheckOrigin = fn
	}
}

// Inspector records tick statistics and serves them.
type Inspector struct {
	mu      sync.Mutex
	history []fastdom.FlushStats
	next    int
	count   int
	clients map[*client]struct{}

	upgrader websocket.Upgrader
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan fastdom.FlushStats
}

var _ fastdom.Observer = (*Inspector)(nil)

// New creates an Inspector.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		history: make([]fastdom.FlushStats, DefaultHistory),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: slog.Default().With("component", "inspector"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ObserveFlush records stats and forwards them to the websocket clients.
// Slow clients miss ticks rather than stalling the scheduler.
func (i *Inspector) ObserveFlush(_ context.Context, stats fastdom.FlushStats) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.history[i.next] = stats
	i.next = (i.next + 1) % len(i.history)
	if i.count < len(i.history) {
		i.count++
	}

	for c := range i.clients {
		select {
		case c.send <- stats:
		default:
		}
	}
}

// Frames returns the recorded ticks, oldest first.
func (i *Inspector) Frames() []fastdom.FlushStats {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]fastdom.FlushStats, 0, i.count)
	start := (i.next - i.count + len(i.history)) % len(i.history)
	for n := 0; n < i.count; n++ {
		out = append(out, i.history[(start+n)%len(i.history)])
	}
	return out
}

// Clients returns the number of connected websocket clients.
func (i *Inspector) Clients() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.clients)
}

// Handler returns the inspector routes.
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/frames", i.serveFrames)
	if i.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(i.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/ws", i.serveWS)
	return r
}

func (i *Inspector) serveFrames(w http.ResponseWriter, r *http.Request) {
	frames := i.Frames()
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		if limit < len(frames) {
			frames = frames[len(frames)-limit:]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frames); err != nil {
		i.logger.Error("encode frames", "error", err)
	}
}

func (i *Inspector) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		i.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan fastdom.FlushStats, sendBuffer)}
	i.mu.Lock()
	i.clients[c] = struct{}{}
	i.mu.Unlock()
	i.logger.Debug("client connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	go i.writeLoop(c, done)
	i.readLoop(c)
	close(done)
}

// readLoop discards client messages until the connection closes, then
// unregisters the client.
func (i *Inspector) readLoop(c *client) {
	defer i.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				i.logger.Warn("read error", "error", err)
			}
			return
		}
	}
}

func (i *Inspector) writeLoop(c *client, done <-chan struct{}) {
	for {
		select {
		case stats := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(stats); err != nil {
				c.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func (i *Inspector) drop(c *client) {
	i.mu.Lock()
	delete(i.clients, c)
	i.mu.Unlock()
	c.conn.Close()
}

// Close disconnects every websocket client.
func (i *Inspector) Close() {
	i.mu.Lock()
	clients := make([]*client, 0, len(i.clients))
	for c := range i.clients {
		clients = append(clients, c)
	}
	i.mu.Unlock()

	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeTimeout))
		c.conn.Close()
	}
}

// Serve listens on addr until ctx is cancelled, then shuts the server down.
func (i *Inspector) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           i.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		i.logger.Info("inspector listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	i.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
