package audit

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventVerifySuccess  EventType = "verify_success"
	EventVerifyRejected EventType = "verify_rejected"
	EventDeviceConflict EventType = "device_conflict"
	EventLogout         EventType = "logout"
)

type Event struct {
	Type      EventType
	Code      string
	DeviceID  string
	IP        string
	UserAgent string
}

func Log(event Event) {
	logger := log.With().
		Str("audit", "security").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.Code != "" {
		logger = logger.With().Str("code", event.Code).Logger()
	}
	if event.DeviceID != "" {
		logger = logger.With().Str("device_id", event.DeviceID).Logger()
	}
	if event.IP != "" {
		logger = logger.With().Str("ip", event.IP).Logger()
	}
	if event.UserAgent != "" {
		logger = logger.With().Str("user_agent", event.UserAgent).Logger()
	}

	logger.Info().Msg("security audit event")
}

func LogFromRequest(r *http.Request, event Event) {
	event.IP = getClientIP(r)
	event.UserAgent = r.UserAgent()
	Log(event)
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
