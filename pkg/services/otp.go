package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/utils"
)

// Channel is where a one-time code is delivered.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
)

const verifiedMarker = "verified"

// CodeSender delivers a freshly generated code to a destination.
type CodeSender interface {
	SendCode(ctx context.Context, destination, code string, ttl time.Duration) error
}

// CodeStore is a keyed store with per-entry expiry.
type CodeStore interface {
	Set(key, value string, ttl time.Duration)
	Get(key string) (string, bool)
	CompareAndDelete(key, value string) bool
}

// OTPService issues and checks one-time codes for phones and emails. A
// successful check leaves a short-lived verified marker that submission
// creation consumes.
type OTPService struct {
	log         *slog.Logger
	senders     map[Channel]CodeSender
	codes       CodeStore
	verified    CodeStore
	ttl         time.Duration
	verifiedTTL time.Duration
	generate    func() (string, error)
}

func NewOTPService(
	log *slog.Logger,
	cfg config.OTPConfig,
	codes CodeStore,
	verified CodeStore,
	phone CodeSender,
	email CodeSender,
) *OTPService {
	return &OTPService{
		log: log,
		senders: map[Channel]CodeSender{
			ChannelPhone: phone,
			ChannelEmail: email,
		},
		codes:       codes,
		verified:    verified,
		ttl:         cfg.TTL,
		verifiedTTL: cfg.VerifiedTTL,
		generate:    GenerateCode,
	}
}

// GenerateCode returns a uniformly random code in 100000..999999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("error generating code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

func storeKey(ch Channel, destination string) string {
	return string(ch) + ":" + destination
}

// Dispatch sends a new code to destination. The code is stored only after
// the provider accepted it; any earlier code for the destination stops
// working.
func (s *OTPService) Dispatch(ctx context.Context, ch Channel, destination string) error {
	const op = "OTPService.Dispatch"

	log := s.log.With(
		slog.String("op", op),
		slog.String("channel", string(ch)),
		slog.String("destination_hash", utils.HashString(destination)),
	)

	if destination == "" {
		return fmt.Errorf("%s: %w: %s", op, ErrMissingField, ch)
	}

	sender, ok := s.senders[ch]
	if !ok || sender == nil {
		return fmt.Errorf("%s: no sender for channel %q", op, ch)
	}

	code, err := s.generate()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := sender.SendCode(ctx, destination, code, s.ttl); err != nil {
		log.Error("failed to send otp", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrDelivery, err)
	}

	s.codes.Set(storeKey(ch, destination), code, s.ttl)
	log.Info("otp sent")

	return nil
}

// Verify consumes the code for destination if it matches exactly.
func (s *OTPService) Verify(ctx context.Context, ch Channel, destination, code string) error {
	const op = "OTPService.Verify"

	log := s.log.With(
		slog.String("op", op),
		slog.String("channel", string(ch)),
		slog.String("destination_hash", utils.HashString(destination)),
	)

	if destination == "" || code == "" {
		return fmt.Errorf("%s: %w: %s and otp", op, ErrMissingField, ch)
	}

	if !s.codes.CompareAndDelete(storeKey(ch, destination), code) {
		log.Info("otp verification failed")
		return fmt.Errorf("%s: %w", op, ErrInvalidCode)
	}

	s.verified.Set(storeKey(ch, destination), verifiedMarker, s.verifiedTTL)
	log.Info("otp verified")

	return nil
}

// IsVerified reports whether destination passed verification recently and
// the marker has not been consumed yet.
func (s *OTPService) IsVerified(ch Channel, destination string) bool {
	_, ok := s.verified.Get(storeKey(ch, destination))
	return ok
}

// ConsumeVerified removes the verified marker and reports whether one was
// present.
func (s *OTPService) ConsumeVerified(ch Channel, destination string) bool {
	return s.verified.CompareAndDelete(storeKey(ch, destination), verifiedMarker)
}

// RestoreVerified puts back a marker taken by ConsumeVerified when the
// submission it was taken for did not go through. The window restarts.
func (s *OTPService) RestoreVerified(ch Channel, destination string) {
	s.verified.Set(storeKey(ch, destination), verifiedMarker, s.verifiedTTL)
}
