package memory

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/application/metric"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// WebsocketConnectionRepository интерфейс для работы с активными сессиями в памяти
type WebsocketConnectionRepository interface {
	Add(uuid.UUID, *websocket.Conn)
	Remove(uuid.UUID)

	// Write не блокируется: сообщение встает в очередь соединения
	Write(uuid.UUID, any)

	Connected() int
}

// wsClient пишет в сокет только из своей горутины writePump
type wsClient struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

// enqueue возвращает false, если очередь переполнилась и соединение закрыто
func (c *wsClient) enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}

	select {
	case c.send <- msg:
		return true
	default:
		c.closed = true
		close(c.send)
		return false
	}
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

func (c *wsClient) writePump(connID uuid.UUID) {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Debug(
					"write to websocket",
					slog.Any(constant.ConnectionID, connID),
					slog.Any(constant.Error, err),
				)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type wsConnectionRepository struct {
	// wsConns хранит map[connection_id]*wsClient
	wsConns    map[uuid.UUID]*wsClient
	sendBuffer int

	mu sync.RWMutex
}

func NewWSConnectionRepository(sendBuffer int) WebsocketConnectionRepository {
	if sendBuffer < 1 {
		sendBuffer = 1
	}

	return &wsConnectionRepository{
		wsConns:    make(map[uuid.UUID]*wsClient, 10),
		sendBuffer: sendBuffer,
	}
}

func (w *wsConnectionRepository) Add(connID uuid.UUID, conn *websocket.Conn) {
	client := &wsClient{
		conn: conn,
		send: make(chan []byte, w.sendBuffer),
	}

	w.mu.Lock()
	prev, ok := w.wsConns[connID]
	w.wsConns[connID] = client
	w.mu.Unlock()

	if ok {
		prev.close()
	} else {
		metric.IncrementWSActiveConnections()
	}

	go client.writePump(connID)
}

func (w *wsConnectionRepository) Remove(connID uuid.UUID) {
	w.mu.Lock()
	client, ok := w.wsConns[connID]
	delete(w.wsConns, connID)
	w.mu.Unlock()

	if !ok {
		return
	}

	client.close()
	metric.DecrementWSActiveConnections()
}

func (w *wsConnectionRepository) Write(connID uuid.UUID, payload any) {
	client, ok := w.getClient(connID)
	if !ok {
		slog.Debug("get websocket", slog.Any(constant.ConnectionID, connID))
		return
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		slog.Error(
			"marshal websocket message",
			slog.Any(constant.ConnectionID, connID),
			slog.Any(constant.Error, err),
		)
		return
	}

	if !client.enqueue(msg) {
		slog.Warn("websocket send buffer overflow, dropping connection", slog.Any(constant.ConnectionID, connID))
	}
}

func (w *wsConnectionRepository) Connected() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.wsConns)
}

func (w *wsConnectionRepository) getClient(connID uuid.UUID) (*wsClient, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	client, ok := w.wsConns[connID]
	return client, ok
}
