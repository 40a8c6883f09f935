package core

import "time"

// ChallengeStatus is the lifecycle state of a value-transfer challenge.
// Verified and expired are terminal: a consumed or lapsed challenge can
// never return to pending or mint another session.
type ChallengeStatus string

const (
	ChallengePending  ChallengeStatus = "pending"
	ChallengeVerified ChallengeStatus = "verified"
	ChallengeExpired  ChallengeStatus = "expired"
)

// SignChallenge is a short-lived proof-of-control challenge: a random
// nonce embedded in a human-readable message the wallet must sign.
type SignChallenge struct {
	Wallet    string    `json:"wallet"`
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ValueChallenge asks the wallet to transfer a randomized decimal amount
// to a shared deposit address. The amount fingerprint disambiguates
// concurrent challenges against the same address.
type ValueChallenge struct {
	ID             string          `json:"id"`
	Wallet         string          `json:"wallet"`
	Amount         string          `json:"amount"` // e.g. "0.347"
	DepositAddress string          `json:"depositAddress"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	Status         ChallengeStatus `json:"status"`
}

// Lapsed reports whether the challenge window has passed at the given instant.
func (c ValueChallenge) Lapsed(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
