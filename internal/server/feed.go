package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/julianstephens/glowup/internal/logger"
)

// Broadcast queues ev for every subscriber, dropping it when the queue is full
func (s *Server) Broadcast(ev Event) {
	select {
	case s.broadcast <- ev:
	case <-s.ctx.Done():
	default:
		logger.Warn("broadcast queue full, dropping event", "type", ev.Type, "key", ev.Key)
	}
}

func (s *Server) broadcastLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Error("failed to marshal event", "error", err)
				continue
			}

			s.clientsMu.RLock()
			conns := make([]*websocket.Conn, 0, len(s.clients))
			for conn := range s.clients {
				conns = append(conns, conn)
			}
			s.clientsMu.RUnlock()

			for _, conn := range conns {
				if err := s.write(conn, data); err != nil {
					logger.Debug("failed to send to subscriber", "error", err)
					s.removeClient(conn)
				}
			}
		}
	}
}

func (s *Server) write(conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

func (s *Server) handleSubscribe(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.clientsMu.Lock()
	s.clients[conn] = struct{}{}
	count := len(s.clients)
	s.clientsMu.Unlock()
	logger.Debug("subscriber connected", "total", count)

	// the hello is sent after registration, so a client that has read it will see every later save
	hello, _ := json.Marshal(Event{Type: EventHello, UpdatedAt: time.Now().UTC()})
	if err := s.write(conn, hello); err != nil {
		s.removeClient(conn)
		return
	}
	s.readLoop(conn)
}

// readLoop holds the connection open until the client goes away. Client messages are ignored.
func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.removeClient(conn)
	for {
		if _, _, err := conn.Read(s.ctx); err != nil {
			return
		}
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	if _, ok := s.clients[conn]; !ok {
		s.clientsMu.Unlock()
		return
	}
	delete(s.clients, conn)
	count := len(s.clients)
	s.clientsMu.Unlock()

	_ = conn.Close(websocket.StatusNormalClosure, "")
	logger.Debug("subscriber disconnected", "total", count)
}
