package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/internal/eth"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// ChallengeService generates and tracks short-lived proof-of-control
// challenges, each bound to one wallet. Sign challenges are stateless
// (the signed message carries everything needed); value challenges are
// persisted because they are single-use.
type ChallengeService struct {
	challenges ports.ChallengeStore
	sessions   *SessionService
	deposits   ports.DepositVerifier

	depositAddress string
	challengeTTL   time.Duration
	purpose        string
	nowTime        func() time.Time
}

// ChallengeServiceOption modifies a ChallengeService instance.
type ChallengeServiceOption func(*ChallengeService)

// WithChallengeNowTime sets the clock function (primarily for testing).
func WithChallengeNowTime(nowFunc func() time.Time) ChallengeServiceOption {
	return func(s *ChallengeService) {
		s.nowTime = nowFunc
	}
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(
	challenges ports.ChallengeStore,
	sessions *SessionService,
	deposits ports.DepositVerifier,
	depositAddress string,
	challengeTTL time.Duration,
	purpose string,
	options ...ChallengeServiceOption,
) *ChallengeService {
	s := &ChallengeService{
		challenges:     challenges,
		sessions:       sessions,
		deposits:       deposits,
		depositAddress: depositAddress,
		challengeTTL:   challengeTTL,
		purpose:        purpose,
		nowTime:        time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CreateSignChallenge generates a random nonce and composes the message
// the wallet must sign. Any syntactically valid address may request one.
func (s *ChallengeService) CreateSignChallenge(wallet string) (core.SignChallenge, error) {
	if !eth.ValidAddress(wallet) {
		return core.SignChallenge{}, core.ErrValidation
	}

	nonce := uuid.New().String()
	expiresAt := s.nowTime().Add(s.challengeTTL)

	return core.SignChallenge{
		Wallet:    wallet,
		Nonce:     nonce,
		Message:   ComposeSignMessage(s.purpose, wallet, nonce, expiresAt),
		ExpiresAt: expiresAt,
	}, nil
}

// VerifySignChallenge checks a signed challenge message and, on success,
// mints a user session for the wallet.
func (s *ChallengeService) VerifySignChallenge(ctx context.Context, wallet, signature, message string) (string, core.Session, error) {
	if err := verifySignedChallenge(message, signature, wallet, s.nowTime()); err != nil {
		return "", core.Session{}, err
	}

	return s.sessions.Issue(ctx, wallet, core.RoleUser)
}

// CreateValueChallenge persists a pending value-transfer challenge with a
// randomized 3-decimal amount, so distinct concurrent challenges against
// the shared deposit address are distinguishable by amount.
func (s *ChallengeService) CreateValueChallenge(ctx context.Context, wallet string) (core.ValueChallenge, error) {
	if !eth.ValidAddress(wallet) {
		return core.ValueChallenge{}, core.ErrValidation
	}

	challenge := core.ValueChallenge{
		ID:             uuid.New().String(),
		Wallet:         wallet,
		Amount:         randomAmount(),
		DepositAddress: s.depositAddress,
		ExpiresAt:      s.nowTime().Add(s.challengeTTL),
		Status:         core.ChallengePending,
	}

	if err := s.challenges.Put(ctx, challenge); err != nil {
		return core.ValueChallenge{}, err
	}

	return challenge, nil
}

// VerifyValueChallenge consumes a pending challenge and mints a user
// session for its wallet. Consumed and lapsed challenges are permanent
// dead ends: replaying the same ID fails instead of minting a second
// session. A lapsed pending challenge transitions to expired as a side
// effect of this check.
func (s *ChallengeService) VerifyValueChallenge(ctx context.Context, challengeID string) (string, core.Session, error) {
	challenge, err := s.challenges.Get(ctx, challengeID)
	if err != nil {
		return "", core.Session{}, err
	}

	switch challenge.Status {
	case core.ChallengeVerified:
		return "", core.Session{}, core.ErrChallengeConsumed
	case core.ChallengeExpired:
		return "", core.Session{}, core.ErrChallengeExpired
	}

	if challenge.Lapsed(s.nowTime()) {
		challenge.Status = core.ChallengeExpired
		if err := s.challenges.Put(ctx, challenge); err != nil {
			log.Warn().Err(err).Str("challenge_id", challenge.ID).Msg("failed to mark challenge expired")
		}
		return "", core.Session{}, core.ErrChallengeExpired
	}

	if err := s.deposits.VerifyDeposit(ctx, challenge); err != nil {
		return "", core.Session{}, err
	}

	challenge.Status = core.ChallengeVerified
	if err := s.challenges.Put(ctx, challenge); err != nil {
		return "", core.Session{}, err
	}

	return s.sessions.Issue(ctx, challenge.Wallet, core.RoleUser)
}

// randomAmount returns a pseudo-random 3-decimal amount in [0.100, 0.999].
func randomAmount() string {
	n := decimal.NewFromInt(int64(rand.IntN(900) + 100))
	return n.Div(decimal.NewFromInt(1000)).StringFixed(3)
}

// TrustedDepositVerifier accepts every deposit without consulting the
// chain. This is the explicit trusted mode: the on-chain transfer is NOT
// confirmed. A real deployment should inject a chain-query verifier.
type TrustedDepositVerifier struct{}

// NewTrustedDepositVerifier creates the always-accepting verifier and
// logs loudly that deposits are taken on trust.
func NewTrustedDepositVerifier() TrustedDepositVerifier {
	log.Warn().Msg("deposit verification runs in trusted mode: on-chain transfers are not checked")
	return TrustedDepositVerifier{}
}

func (TrustedDepositVerifier) VerifyDeposit(ctx context.Context, challenge core.ValueChallenge) error {
	return nil
}
