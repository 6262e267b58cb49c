package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gateway-server-go/internal/repository"
	"github.com/codegate/gateway-server-go/internal/util"
)

// Seeder populates the whitelist once, at process startup. If any codes
// already exist the run is a no-op.
type Seeder struct {
	cipher   *util.Cipher
	codeRepo repository.AccessCodeRepository
	count    int
	codeLen  int
}

func NewSeeder(cipher *util.Cipher, codeRepo repository.AccessCodeRepository, count, codeLen int) *Seeder {
	return &Seeder{
		cipher:   cipher,
		codeRepo: codeRepo,
		count:    count,
		codeLen:  codeLen,
	}
}

// Run seeds the whitelist when it is empty: the table is cleared defensively
// and freshly generated code/ciphertext pairs inserted. The plaintext codes
// are logged for manual distribution; this is the one place they appear
// unmasked.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.codeRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count access codes: %w", err)
	}
	if existing > 0 {
		log.Info().Int("count", existing).Msg("access codes already seeded, skipping")
		return nil
	}

	if err := s.codeRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear access codes: %w", err)
	}

	for i := 0; i < s.count; i++ {
		code, err := util.GenerateAccessCode(s.codeLen)
		if err != nil {
			return fmt.Errorf("generate access code: %w", err)
		}

		if _, err := s.codeRepo.Insert(ctx, code, s.cipher.Encrypt(code)); err != nil {
			return fmt.Errorf("insert access code: %w", err)
		}

		log.Info().Int("n", i+1).Str("code", code).Msg("access code generated")
	}

	log.Info().Int("count", s.count).Msg("access codes seeded")
	return nil
}
