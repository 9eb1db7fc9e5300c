package live

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Message is one typed event pushed to live-feed subscribers.
type Message struct {
	Type         string `json:"type"`
	TournamentID int    `json:"tournament_id"`
	Payload      any    `json:"payload"`
}

// Hub fans events out to websocket clients grouped into rooms, one room
// per tournament.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage

	rooms  map[string]map[*Client]bool
	mu     sync.RWMutex
	logger *slog.Logger
}

type roomMessage struct {
	room string
	data []byte
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("live client joined",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])),
			)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if clients[client] {
					delete(clients, client)
					client.closeSend()
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.room] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop it rather than stall the hub.
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastTournament implements services.LiveBroadcaster.
func (h *Hub) BroadcastTournament(tournamentID int, event string, payload any) {
	data, err := json.Marshal(Message{
		Type:         event,
		TournamentID: tournamentID,
		Payload:      payload,
	})
	if err != nil {
		h.logger.Error("failed to marshal live message", slog.Any("error", err))
		return
	}
	h.broadcast <- roomMessage{room: roomName(tournamentID), data: data}
}

func roomName(tournamentID int) string {
	return "tournament:" + strconv.Itoa(tournamentID)
}
