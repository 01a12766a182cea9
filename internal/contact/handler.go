package contact

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/portfolio/internal/locale"
	"github.com/JaimeStill/portfolio/pkg/handlers"
	"github.com/JaimeStill/portfolio/pkg/routes"
)

type Handler struct {
	sender     Sender
	translator locale.Translator
	logger     *slog.Logger
}

func NewHandler(sender Sender, translator locale.Translator, logger *slog.Logger) *Handler {
	return &Handler{
		sender:     sender,
		translator: translator,
		logger:     logger.With("handler", "contact"),
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/contact",
		Description: "Contact form delivery",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Send},
		},
	}
}

// Send delivers the submitted form. Responses carry a localized message; the
// language comes from ?lang= or Accept-Language.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	lang := locale.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))

	var form Form
	if err := handlers.DecodeJSON(w, r, &form); err != nil {
		handlers.RespondMessage(w, h.logger, http.StatusBadRequest, err,
			h.translator.Translate(lang, locale.MsgContactInvalid, nil))
		return
	}

	if err := h.sender.Send(r.Context(), form); err != nil {
		id := locale.MsgContactFailed
		if errors.Is(err, ErrInvalidForm) {
			id = locale.MsgContactInvalid
		}
		handlers.RespondMessage(w, h.logger, MapHTTPStatus(err), err, h.translator.Translate(lang, id, nil))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{
		"message": h.translator.Translate(lang, locale.MsgContactSent, nil),
	})
}
