package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/qrave1/MemStudy/internal/application/config"
	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/domain/events"
	"github.com/qrave1/MemStudy/internal/domain/runtime"
	"github.com/qrave1/MemStudy/internal/infra/adapters/memory"
	"github.com/qrave1/MemStudy/internal/infra/appctx"
	"github.com/qrave1/MemStudy/internal/usecase"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 8 << 10
)

type WebSocketHandler struct {
	upgrader *websocket.Upgrader

	commandRate  rate.Limit
	commandBurst int

	versusUsecase usecase.VersusUsecase

	wsConnRepo memory.WebsocketConnectionRepository
}

func NewWebSocketHandler(
	cfg *config.Config,
	versusUsecase usecase.VersusUsecase,
	wsConnRepo memory.WebsocketConnectionRepository,
) *WebSocketHandler {
	return &WebSocketHandler{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				if cfg.Debug || origin == "" {
					return true
				}

				return origin == cfg.Domain || slices.Contains(cfg.CORSOrigins, origin)
			},
		},
		commandRate:   rate.Limit(cfg.Versus.CommandRate),
		commandBurst:  cfg.Versus.CommandBurst,
		versusUsecase: versusUsecase,
		wsConnRepo:    wsConnRepo,
	}
}

func (h *WebSocketHandler) Handle(c echo.Context) error {
	userID, ok := appctx.UserID(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"WebSocket upgrade error",
			slog.Any(constant.Error, err),
		)
		return nil
	}
	defer ws.Close()

	conn := runtime.Connection{ID: uuid.New(), UserID: userID}
	ctx := c.Request().Context()

	h.wsConnRepo.Add(conn.ID, ws)
	defer h.wsConnRepo.Remove(conn.ID)

	// комнаты соединения чистятся до закрытия его очереди
	defer h.versusUsecase.HandleDisconnect(context.WithoutCancel(ctx), conn)

	slog.Debug(
		"websocket connected",
		slog.Any(constant.ConnectionID, conn.ID),
		slog.Any(constant.UserID, conn.UserID),
	)

	ws.SetReadLimit(maxMessageSize)

	if err = ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return nil
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(h.commandRate, h.commandBurst)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			h.handleWebsocketError(conn, err)
			return nil
		}

		ws.SetReadDeadline(time.Now().Add(pongWait))

		if !limiter.Allow() {
			slog.Debug("command rate limit exceeded", slog.Any(constant.ConnectionID, conn.ID))
			continue
		}

		msg := new(events.Message)

		if err = json.Unmarshal(data, msg); err != nil {
			slog.Debug(
				"unmarshal websocket message",
				slog.Any(constant.ConnectionID, conn.ID),
				slog.Any(constant.Error, err),
			)
			continue
		}

		h.versusUsecase.Dispatch(ctx, conn, msg)
	}
}

func (h *WebSocketHandler) handleWebsocketError(conn runtime.Connection, err error) {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		switch closeErr.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
			slog.Debug("websocket disconnected", slog.Any(constant.ConnectionID, conn.ID))
		default:
			slog.Warn(
				"websocket close error",
				slog.Any(constant.ConnectionID, conn.ID),
				slog.Any(constant.Error, err),
			)
		}

		return
	}

	slog.Debug(
		"websocket read",
		slog.Any(constant.ConnectionID, conn.ID),
		slog.Any(constant.Error, err),
	)
}
