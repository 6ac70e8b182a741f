package ws

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	models "CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/usecase"
	xlogger "CoinPulse/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 90 * time.Second
	pingInterval = 45 * time.Second

	welcomeText = "Connected to CoinPulse market stream"
)

// Ticker produces one broadcast tick.
type Ticker interface {
	Tick(ctx context.Context) (*usecase.TickResult, error)
}

// StreamHandler upgrades /ws and runs one tick loop per subscriber.
type StreamHandler struct {
	logger   *xlogger.Logger
	ticker   Ticker
	interval time.Duration
	metrics  domrepo.Metrics
	upgrader websocket.Upgrader

	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex // guards closed and wg.Add against Close
	closed bool
	wg     sync.WaitGroup
	active atomic.Int64
}

func NewStreamHandler(logger *xlogger.Logger, t Ticker, interval time.Duration, m domrepo.Metrics) *StreamHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	base, cancel := context.WithCancel(context.Background())
	return &StreamHandler{
		logger:   logger,
		ticker:   t,
		interval: interval,
		metrics:  m,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		base:   base,
		cancel: cancel,
	}
}

func (h *StreamHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Close disconnects every subscriber and waits for their loops to exit.
// Upgrades attempted afterwards are refused with 503.
func (h *StreamHandler) Close() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	h.cancel()
	h.wg.Wait()
}

// Subscribers returns the number of connected subscribers.
func (h *StreamHandler) Subscribers() int {
	return int(h.active.Load())
}

func (h *StreamHandler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	return true
}

func (h *StreamHandler) Serve(c echo.Context) error {
	if !h.track() {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	defer h.wg.Done()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Debug("ws upgrade failed", xlogger.Error(err))
		return nil
	}

	h.active.Add(1)
	defer h.active.Add(-1)

	log := h.logger.With(xlogger.String("subscriber", uuid.NewString()))
	ctx, cancel := context.WithCancel(h.base)
	defer cancel()
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.SubscriberConnected()
		defer h.metrics.SubscriberDisconnected()
	}
	log.Info("subscriber connected", xlogger.String("remote", c.RealIP()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, log)
		// Unblocks ReadMessage below.
		_ = conn.Close()
	}()

	h.readLoop(conn, log)
	cancel()
	<-done

	log.Info("subscriber disconnected")
	return nil
}

// readLoop drains inbound frames until the peer goes away.
func (h *StreamHandler) readLoop(conn *websocket.Conn, log *xlogger.Logger) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("ws read error", xlogger.Error(err))
			}
			return
		}
		log.Debug("ws inbound message ignored", xlogger.Int("type", mt), xlogger.Int("bytes", len(data)))
	}
}

// writeLoop owns every write on conn.
func (h *StreamHandler) writeLoop(ctx context.Context, conn *websocket.Conn, log *xlogger.Logger) {
	if err := h.write(conn, models.WelcomeMessage{Message: welcomeText}); err != nil {
		log.Debug("ws welcome write failed", xlogger.Error(err))
		return
	}

	tick := time.NewTicker(h.interval)
	defer tick.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("ws ping failed", xlogger.Error(err))
				return
			}
		case <-tick.C:
			res, err := h.ticker.Tick(ctx)
			if err != nil {
				log.Warn("broadcast tick skipped", xlogger.Error(err))
				continue
			}
			if err := h.write(conn, models.MarketDataMessage{MarketData: res.Snapshot}); err != nil {
				log.Debug("ws write failed", xlogger.Error(err))
				return
			}
			if res.Notify() {
				log.Info("valuation threshold crossed",
					xlogger.Float64("change_pct", res.ChangePct.InexactFloat64()),
					xlogger.String("valuation", res.Valuation.Value.StringFixed(2)),
				)
				if err := h.write(conn, models.NotificationMessage{Notification: res.Notification}); err != nil {
					log.Debug("ws write failed", xlogger.Error(err))
					return
				}
			}
		}
	}
}

func (h *StreamHandler) write(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}
