package analytics

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/portfolio/internal/session"
	"github.com/JaimeStill/portfolio/pkg/handlers"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

type Handler struct {
	tracker Tracker
	logger  *slog.Logger
}

func NewHandler(tracker Tracker, logger *slog.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		logger:  logger.With("handler", "analytics"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/events",
		Description: "Client analytics events",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Track},
		},
	}
}

type trackRequest struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Language string `json:"language"`
}

// Track accepts one client event. Delivery is not reported.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	eventType, err := ParseEventType(req.Type)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	event := Event{
		Type:     eventType,
		Path:     req.Path,
		Label:    req.Label,
		Value:    req.Value,
		Language: req.Language,
	}
	if id, ok := session.Peek(r); ok {
		event.ClientID = id
	}
	if err := event.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.tracker.Track(event)
	w.WriteHeader(http.StatusAccepted)
}
