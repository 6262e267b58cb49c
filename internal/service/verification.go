package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/codegate/gateway-server-go/internal/errors"
	"github.com/codegate/gateway-server-go/internal/repository"
	"github.com/codegate/gateway-server-go/internal/util"
)

// VerificationService answers "is this code valid, and may this device use
// it now". It owns all reads and writes of both stores.
type VerificationService struct {
	cipher   *util.Cipher
	codeRepo repository.AccessCodeRepository
	sessions repository.SessionStore
}

func NewVerificationService(
	cipher *util.Cipher,
	codeRepo repository.AccessCodeRepository,
	sessions repository.SessionStore,
) *VerificationService {
	return &VerificationService{
		cipher:   cipher,
		codeRepo: codeRepo,
		sessions: sessions,
	}
}

// VerifyResult is the positive-path outcome of a verification
type VerifyResult struct {
	Valid bool `json:"valid"`
}

// Verify checks the code against the whitelist and enforces the
// single-active-device policy. An unrecognized code is a normal negative
// result, not an error. A code held by a different device is refused with a
// device-conflict error. Otherwise the session is upserted, which restarts
// its expiry window.
//
// The session read and the upsert are two separate store calls with no lock
// between them; near-simultaneous verifications of the same code from two
// devices can both pass the conflict check and the later upsert wins.
func (s *VerificationService) Verify(ctx context.Context, code, deviceID string) (*VerifyResult, error) {
	if code == "" {
		return nil, apperrors.MissingRequired("code")
	}
	if deviceID == "" {
		return nil, apperrors.MissingRequired("deviceId")
	}

	encrypted := s.cipher.Encrypt(code)

	entry, err := s.codeRepo.FindByEncrypted(ctx, encrypted)
	if err != nil {
		log.Error().Err(err).Msg("whitelist lookup failed")
		return nil, apperrors.Database(err)
	}
	if entry == nil {
		log.Info().Str("code", util.MaskCode(code)).Msg("unrecognized access code")
		return &VerifyResult{Valid: false}, nil
	}

	session, err := s.sessions.FindByCode(ctx, entry.Code)
	if err != nil {
		log.Error().Err(err).Msg("session lookup failed")
		return nil, apperrors.Database(err)
	}

	if session != nil && session.DeviceID != deviceID {
		log.Warn().
			Str("code", util.MaskCode(code)).
			Str("deviceId", deviceID).
			Msg("code bound to another device")
		return nil, apperrors.DeviceConflict()
	}

	if _, err := s.sessions.Upsert(ctx, entry.Code, deviceID); err != nil {
		log.Error().Err(err).Msg("session upsert failed")
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("code", util.MaskCode(code)).
		Str("deviceId", deviceID).
		Msg("device verified")

	return &VerifyResult{Valid: true}, nil
}

// Logout removes the session for code unconditionally. There is no device
// ownership check: anyone who knows the code can clear its binding.
func (s *VerificationService) Logout(ctx context.Context, code string) error {
	if code == "" {
		return apperrors.MissingRequired("code")
	}

	if err := s.sessions.DeleteByCode(ctx, code); err != nil {
		log.Error().Err(err).Msg("session delete failed")
		return apperrors.Database(err)
	}

	log.Info().Str("code", util.MaskCode(code)).Msg("session logged out")
	return nil
}
