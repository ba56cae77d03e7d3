package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/radar"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

var radarUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		// The API is bearer-token gated; origin checks add nothing for a
		// native client.
		return true
	},
}

// locationFrame is a client-to-server stream frame: a location fix or an
// acquisition error code.
type locationFrame struct {
	Lat   *float64 `json:"lat,omitempty"`
	Lon   *float64 `json:"lon,omitempty"`
	Error string   `json:"error,omitempty"`
}

// eventFrame is a server-to-client stream frame carrying a radar event.
type eventFrame struct {
	Type           string  `json:"type"`
	ItemID         string  `json:"itemId,omitempty"`
	Title          string  `json:"title,omitempty"`
	Message        string  `json:"message,omitempty"`
	DistanceMeters float64 `json:"distanceMeters,omitempty"`
	Forced         bool    `json:"forced,omitempty"`
}

// RadarHandler handles proximity radar endpoints.
type RadarHandler struct {
	manager *radar.Manager
	logger  zerolog.Logger
}

// NewRadarHandler creates a new RadarHandler.
func NewRadarHandler(manager *radar.Manager, logger zerolog.Logger) *RadarHandler {
	return &RadarHandler{
		manager: manager,
		logger:  logger.With().Str("component", "radar_handler").Logger(),
	}
}

// GetStatus handles GET /v1/me/radar - current session state.
func (h *RadarHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	st := h.manager.Status(userID)
	out := models.RadarStatus{
		Active:        st.Active,
		NotifiedCount: st.NotifiedCount,
	}
	if st.LastFix != nil {
		out.LastFix = &models.RadarFix{
			Coordinate: st.LastFix.Coordinate,
			At:         models.Timestamp(st.LastFix.At),
		}
	}

	response.JSON(w, r, http.StatusOK, out)
}

// Start handles POST /v1/me/radar/start - turn the radar ON.
func (h *RadarHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.manager.Start(r.Context(), userID, nil); err != nil {
		switch {
		case errors.Is(err, radar.ErrAlreadyActive):
			response.Conflict(w, r, "radar already active")
		case errors.Is(err, radar.ErrPermissionDenied):
			response.Forbidden(w, r, "notification permission denied")
		default:
			response.InternalError(w, r, "failed to start radar")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.RadarStatus{Active: true})
}

// Stop handles POST /v1/me/radar/stop - turn the radar OFF. Idempotent.
func (h *RadarHandler) Stop(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	h.manager.Stop(userID)
	response.NoContent(w, r)
}

// Stream handles GET /v1/me/radar/stream - WebSocket transport for the
// active session. The device streams location frames up; radar events are
// pushed back down the same socket.
func (h *RadarHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	conn, err := radarUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := make(chan eventFrame, 16)
	h.manager.SetEvents(userID, func(ev radar.Event) {
		frame := eventFrame{
			Type:           string(ev.Type),
			ItemID:         ev.ItemID,
			Title:          ev.Title,
			Message:        ev.Message,
			DistanceMeters: ev.DistanceMeters,
			Forced:         ev.Forced,
		}
		select {
		case events <- frame:
		default:
			// Slow client; radar events are transient, drop rather than block.
		}
	})

	done := make(chan struct{})
	go func() {
		for {
			select {
			case frame := <-events:
				if err := conn.WriteJSON(frame); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		var frame locationFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}

		switch {
		case frame.Error != "":
			if err := h.manager.PushError(userID, radar.ErrorCode(frame.Error)); err != nil {
				h.logger.Debug().Err(err).Msg("dropped error frame without active session")
			}
		case frame.Lat != nil && frame.Lon != nil:
			sample := radar.Sample{
				Coordinate: geo.Coordinate{Lat: *frame.Lat, Lon: *frame.Lon},
				At:         time.Now(),
			}
			if err := h.manager.Push(userID, sample); err != nil {
				h.logger.Debug().Err(err).Msg("dropped location frame without active session")
			}
		}
	}

	h.manager.SetEvents(userID, nil)
	close(done)
}
