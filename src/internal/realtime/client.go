package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// Client wraps one websocket connection. A single reader goroutine feeds the
// router, a single writer goroutine drains the send channel, so outbound
// events reach the peer in the order they were enqueued.
type Client struct {
	id     string
	conn   *websocket.Conn
	router *Router

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(conn *websocket.Conn, router *Router, sendBufferSize int) *Client {
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		router: router,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Close tears down the websocket. The read pump notices and runs the normal
// disconnect path.
func (c *Client) Close() error {
	c.shutdown()
	return nil
}

// Send enqueues one event for the writer goroutine. It never blocks: a full
// buffer or a closed connection drops the event with an error.
func (c *Client) Send(event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	frame, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return models.ErrConnectionClosed
	default:
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return models.ErrSendBufferFull
	}
}

// ReadPump reads frames from the websocket and hands them to the router. It
// runs in a per-connection goroutine and owns the connection's teardown.
func (c *Client) ReadPump() {
	defer func() {
		c.shutdown()
		c.router.Disconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).WithField("connection_id", c.id).Warn("Websocket closed unexpectedly")
			}
			return
		}

		c.router.HandleInbound(c, raw)
	}
}

// WritePump drains the send channel onto the websocket and keeps the
// connection alive with pings. It runs in a per-connection goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logrus.WithError(err).WithField("connection_id", c.id).Debug("Websocket write failed")
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

func (c *Client) shutdown() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}
