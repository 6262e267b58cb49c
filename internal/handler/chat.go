package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/codegate/gateway-server-go/internal/httputil"
	"github.com/codegate/gateway-server-go/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/chat", h.Chat)

	return r
}

// POST /api/chat
// Forwards the conversation to the completion API and relays the upstream
// response body verbatim.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []service.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages is required"})
		return
	}

	completion, err := h.chatService.Complete(r.Context(), req.Messages)
	if err != nil {
		log.Error().Err(err).Int("messages", len(req.Messages)).Msg("chat completion failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to process chat request"})
		return
	}

	httputil.WriteRawJSON(w, http.StatusOK, completion)
}
