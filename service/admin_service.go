package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/internal/eth"
	"github.com/Pizajolo/nft-ticket-registration/ports"
)

// AdminService authenticates admin principals. Password and
// wallet-signature login both converge on the same admin session; how the
// identity was proven never reaches the session manager.
type AdminService struct {
	creds    ports.CredentialStore
	sessions *SessionService

	adminWallet  string // the single authorized admin wallet, lowercase
	challengeTTL time.Duration
	purpose      string
	nowTime      func() time.Time
}

// AdminServiceOption modifies an AdminService instance.
type AdminServiceOption func(*AdminService)

// WithAdminNowTime sets the clock function (primarily for testing).
func WithAdminNowTime(nowFunc func() time.Time) AdminServiceOption {
	return func(s *AdminService) {
		s.nowTime = nowFunc
	}
}

// NewAdminService creates a new admin service.
func NewAdminService(
	creds ports.CredentialStore,
	sessions *SessionService,
	adminWallet string,
	challengeTTL time.Duration,
	purpose string,
	options ...AdminServiceOption,
) *AdminService {
	s := &AdminService{
		creds:        creds,
		sessions:     sessions,
		adminWallet:  core.NormalizeWallet(adminWallet),
		challengeTTL: challengeTTL,
		purpose:      purpose,
		nowTime:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// PasswordLogin authenticates with email and password and mints an admin
// session for the credential's bound wallet. Unknown email and wrong
// password fail identically.
func (s *AdminService) PasswordLogin(ctx context.Context, email, password string) (string, core.Session, error) {
	admin, err := s.creds.FindAdminByEmail(ctx, email)
	if err != nil {
		return "", core.Session{}, core.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", core.Session{}, core.ErrInvalidCredentials
	}

	return s.sessions.Issue(ctx, admin.Wallet, core.RoleAdmin)
}

// WalletNonce issues an admin sign challenge. Any wallet other than the
// configured admin wallet is rejected before a challenge exists to sign.
func (s *AdminService) WalletNonce(wallet string) (core.SignChallenge, error) {
	if !eth.ValidAddress(wallet) {
		return core.SignChallenge{}, core.ErrValidation
	}
	if core.NormalizeWallet(wallet) != s.adminWallet {
		return core.SignChallenge{}, core.ErrUnauthorizedWallet
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

// WalletLogin verifies a signed admin challenge and mints an admin
// session. The configured-wallet gate runs before any signature work.
func (s *AdminService) WalletLogin(ctx context.Context, wallet, signature, message string) (string, core.Session, error) {
	if !eth.ValidAddress(wallet) {
		return "", core.Session{}, core.ErrValidation
	}
	if core.NormalizeWallet(wallet) != s.adminWallet {
		return "", core.Session{}, core.ErrUnauthorizedWallet
	}

	if err := verifySignedChallenge(message, signature, wallet, s.nowTime()); err != nil {
		return "", core.Session{}, err
	}

	return s.sessions.Issue(ctx, wallet, core.RoleAdmin)
}
