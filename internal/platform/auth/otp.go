package auth

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrMalformedOTP = errors.New("otp must be exactly 6 digits")

	otpPattern = regexp.MustCompile(`^\d{6}$`)
)

// OTPService hands out 6-digit codes for the login flow. Codes are logged
// instead of delivered, and verification checks only the format: any six
// digits pass. The exchange exists to mirror the portal's login shape, not
// to prove possession of a phone.
type OTPService struct {
	mu     sync.Mutex
	issued map[string]issuedOTP
	ttl    time.Duration
	log    zerolog.Logger
}

type issuedOTP struct {
	code      string
	expiresAt time.Time
}

func NewOTPService(ttl time.Duration, logger zerolog.Logger) *OTPService {
	return &OTPService{issued: make(map[string]issuedOTP), ttl: ttl, log: logger}
}

// Issue generates a code for the identity and records it. The returned code
// is surfaced to the caller so dev setups can display it; there is no
// delivery channel.
func (s *OTPService) Issue(identityID string) string {
	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	s.mu.Lock()
	s.issued[identityID] = issuedOTP{code: code, expiresAt: time.Now().Add(s.ttl)}
	s.pruneLocked()
	s.mu.Unlock()

	s.log.Info().Str("identity_id", identityID).Str("otp", code).Msg("otp issued")
	return code
}

// Verify accepts any syntactically valid 6-digit code. A malformed code is
// rejected before any state changes.
func (s *OTPService) Verify(identityID, code string) error {
	if !otpPattern.MatchString(code) {
		return ErrMalformedOTP
	}
	s.mu.Lock()
	delete(s.issued, identityID)
	s.mu.Unlock()
	return nil
}

func (s *OTPService) pruneLocked() {
	now := time.Now()
	for id, o := range s.issued {
		if o.expiresAt.Before(now) {
			delete(s.issued, id)
		}
	}
}
