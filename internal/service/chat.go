package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gateway-server-go/internal/config"
	apperrors "github.com/codegate/gateway-server-go/internal/errors"
)

// ChatMessage is one turn of the conversation forwarded upstream.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// ChatService proxies conversations to the external completion API. The
// model, temperature and output token cap are process-wide constants; the
// caller only supplies messages, which are forwarded verbatim.
type ChatService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewChatService(baseURL, apiKey string) *ChatService {
	return &ChatService{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: config.ChatTimeout,
		},
	}
}

// Complete sends messages to the completion endpoint and relays the upstream
// response body as-is. Upstream failure detail is logged for operators and
// never returned to the caller.
func (s *ChatService) Complete(ctx context.Context, messages []ChatMessage) (json.RawMessage, error) {
	body, err := json.Marshal(completionRequest{
		Model:       config.ChatModel,
		Messages:    messages,
		Temperature: config.ChatTemperature,
		MaxTokens:   config.ChatMaxTokens,
	})
	if err != nil {
		return nil, apperrors.Internal("failed to encode completion request").WithCause(err)
	}

	url := s.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Internal("failed to create completion request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("completion request failed")
		return nil, apperrors.Upstream(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("completion response read failed")
		return nil, apperrors.Upstream(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Int("status", resp.StatusCode).
			Dur("elapsed", elapsed).
			Str("body", string(respBody)).
			Msg("completion request rejected upstream")
		return nil, apperrors.Upstream(fmt.Errorf("upstream status %d", resp.StatusCode))
	}

	log.Info().
		Int("status", resp.StatusCode).
		Int("messages", len(messages)).
		Dur("elapsed", elapsed).
		Msg("completion relayed")

	return json.RawMessage(respBody), nil
}
