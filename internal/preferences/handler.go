package preferences

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/portfolio/internal/analytics"
	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/internal/session"
	"github.com/JaimeStill/portfolio/pkg/handlers"
	"github.com/JaimeStill/portfolio/pkg/routes"
	"github.com/JaimeStill/portfolio/pkg/storage"
)

type Handler struct {
	sys     storage.System
	tracker analytics.Tracker
	logger  *slog.Logger
	secure  bool
}

// NewHandler serves preferences stored in sys. secure marks the client cookie
// Secure.
func NewHandler(sys storage.System, tracker analytics.Tracker, logger *slog.Logger, secure bool) *Handler {
	return &Handler{
		sys:     sys,
		tracker: tracker,
		logger:  logger.With("handler", "preferences"),
		secure:  secure,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/preferences",
		Description: "Theme and language preferences",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Get},
			{Method: "PUT", Pattern: "", Handler: h.Update},
			{Method: "POST", Pattern: "/theme/toggle", Handler: h.ToggleTheme},
			{Method: "POST", Pattern: "/language/toggle", Handler: h.ToggleLanguage},
		},
	}
}

type updateRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*AppState, string, error) {
	client := session.Ensure(w, r, h.secure)
	state, err := Load(r.Context(), NewStorageStore(h.sys, client), r.Header.Get("Accept-Language"))
	return state, client, err
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	state, _, err := h.load(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, state.Snapshot())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var (
		theme Theme
		lang  locale.Language
		err   error
	)
	if req.Theme != nil {
		if theme, err = ParseTheme(*req.Theme); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}
	if req.Language != nil {
		if lang, err = locale.ParseLanguage(*req.Language); err != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidLanguage, err)
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	state, _, err := h.load(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if theme != "" {
		if err := state.SetTheme(r.Context(), theme); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}
	if lang != "" {
		if err := state.SetLanguage(r.Context(), lang); err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, state.Snapshot())
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	state, client, err := h.load(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	theme, err := state.ToggleTheme(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.track(analytics.ThemeToggle, string(theme), state.Language(), client)
	handlers.RespondJSON(w, http.StatusOK, state.Snapshot())
}

func (h *Handler) ToggleLanguage(w http.ResponseWriter, r *http.Request) {
	state, client, err := h.load(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	lang, err := state.ToggleLanguage(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.track(analytics.LanguageToggle, string(lang), lang, client)
	handlers.RespondJSON(w, http.StatusOK, state.Snapshot())
}

func (h *Handler) track(t analytics.EventType, value string, lang locale.Language, client string) {
	if h.tracker == nil {
		return
	}
	h.tracker.Track(analytics.Event{
		Type:     t,
		Value:    value,
		Language: string(lang),
		ClientID: client,
	})
}
