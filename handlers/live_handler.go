package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pitchside/league-system/live"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The SPA is served from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	hub *live.Hub
}

func NewLiveHandler(hub *live.Hub) *LiveHandler {
	return &LiveHandler{hub: hub}
}

// Subscribe upgrades the connection and joins the tournament's live feed.
func (h *LiveHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := idParam(r, "id")
	if err != nil {
		notFoundResponse(w, r)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	live.NewClient(h.hub, conn, tournamentID)
}
