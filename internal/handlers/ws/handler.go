package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/KirkDiggler/numberjack/internal/common/uuid"
	"github.com/KirkDiggler/numberjack/internal/models"
	"github.com/KirkDiggler/numberjack/internal/services/gateway"
)

const (
	// DefaultSendBuffer is how many outbound frames a connection queues
	DefaultSendBuffer = 64

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Hub is the part of the gateway the transport drives
type Hub interface {
	Register(conn gateway.Conn) error
	Unregister(conn gateway.Conn) error
	Dispatch(conn gateway.Conn, frame []byte) error
	Rooms(ctx context.Context) ([]*models.Game, error)
}

// Config holds configuration for the websocket handler
type Config struct {
	Hub Hub

	// UUID generates connection IDs
	UUID uuid.UUID

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// SendBuffer defaults to DefaultSendBuffer
	SendBuffer int
}

// Handler serves the relay's websocket and HTTP endpoints
type Handler struct {
	hub        Hub
	uuid       uuid.UUID
	logger     *zap.Logger
	sendBuffer int
	upgrader   websocket.Upgrader
}

// New creates a new handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	if cfg.UUID == nil {
		return nil, errors.New("uuid generator cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}

	return &Handler{
		hub:        cfg.Hub,
		uuid:       cfg.UUID,
		logger:     logger,
		sendBuffer: sendBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}, nil
}

// Routes registers the relay endpoints
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()

	r.Use(corsMiddleware)

	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/rooms", h.ListRooms).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")

		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// roomsResponse is the body of GET /rooms
type roomsResponse struct {
	Rooms []*models.Game `json:"rooms"`
}

// ListRooms returns the mirrored rooms, optionally filtered by ?status=
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	games, err := h.hub.Rooms(r.Context())
	if err != nil {
		h.logger.Error("failed to list rooms", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "rooms unavailable"})
		return
	}

	status := models.RoomStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status"})
		return
	}

	resp := roomsResponse{Rooms: make([]*models.Game, 0, len(games))}
	for _, g := range games {
		if status == "" || g.Room.Status == status {
			resp.Rooms = append(resp.Rooms, g)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeWS upgrades the request and pumps frames between the socket and the hub
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}

	conn := &connection{
		id:     h.uuid.NewUUID(),
		socket: socket,
		send:   make(chan []byte, h.sendBuffer),
		closed: make(chan struct{}),
	}
	logger := h.logger.With(zap.String("conn_id", conn.id), zap.String("remote", r.RemoteAddr))

	if err := h.hub.Register(conn); err != nil {
		logger.Error("failed to register connection", zap.Error(err))
		socket.Close()
		return
	}
	logger.Info("connection opened")

	go conn.writePump(logger)
	conn.readPump(h.hub, logger)

	if err := h.hub.Unregister(conn); err != nil {
		logger.Debug("failed to unregister connection", zap.Error(err))
	}
	logger.Info("connection closed")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
