package relay

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"minidxo/internal/agent"
	"minidxo/internal/consultation"
	"minidxo/internal/logging"
	"minidxo/internal/platform/web"
)

const ChatPath = "/functions/v1/chat"

const (
	msgRateLimited   = "Rate limit exceeded. Please try again in a moment."
	msgQuotaExceeded = "AI service quota exceeded. Please contact support."
	msgUnexpected    = "An unexpected error occurred"
)

type ChatRequest struct {
	Messages []consultation.Turn `json:"messages"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// Handler is the stateless chat relay: each request is forwarded to the
// gateway on its own.
type Handler struct {
	gateway agent.GatewayClient
	log     *slog.Logger
}

func NewHandler(gateway agent.GatewayClient) *Handler {
	return &Handler{gateway: gateway, log: logging.New("relay")}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request")
		return
	}

	text, err := h.gateway.Complete(r.Context(), req.Messages)
	if err != nil {
		h.writeGatewayError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, ChatResponse{Response: text})
}

func (h *Handler) writeGatewayError(w http.ResponseWriter, err error) {
	var statusErr *agent.StatusError
	switch {
	case errors.Is(err, consultation.ErrRateLimited):
		web.Error(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, consultation.ErrQuotaExceeded):
		web.Error(w, http.StatusPaymentRequired, msgQuotaExceeded)
	case errors.Is(err, consultation.ErrNotConfigured):
		h.log.Error("chat relay misconfigured", "err", err)
		web.Error(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &statusErr):
		h.log.Error("AI Gateway error", "status", statusErr.Code, "body", statusErr.Body)
		web.Error(w, http.StatusInternalServerError, statusErr.Error())
	default:
		h.log.Error("chat relay error", "err", err)
		msg := err.Error()
		if msg == "" {
			msg = msgUnexpected
		}
		web.Error(w, http.StatusInternalServerError, msg)
	}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post(ChatPath, h.Chat)
}
