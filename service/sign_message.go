package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pizajolo/nft-ticket-registration/core"
	"github.com/Pizajolo/nft-ticket-registration/internal/eth"
)

// ComposeSignMessage builds the deterministic human-readable message a
// wallet signs to prove control. The same inputs always produce the same
// message, with the wallet and nonce embedded verbatim.
func ComposeSignMessage(purpose, wallet, nonce string, expiresAt time.Time) string {
	return strings.Join([]string{
		purpose,
		fmt.Sprintf("Wallet: %s", wallet),
		fmt.Sprintf("Nonce: %s", nonce),
		fmt.Sprintf("Expires: %s", expiresAt.UTC().Format(time.RFC3339)),
	}, "\n")
}

// ParsedSignMessage is the structured content recovered from a composed
// sign message.
type ParsedSignMessage struct {
	Purpose   string
	Wallet    string
	Nonce     string
	ExpiresAt time.Time
}

// ParseSignMessage recovers the fields of a message produced by
// ComposeSignMessage. Returns false for anything that does not match the
// expected shape.
func ParseSignMessage(message string) (ParsedSignMessage, bool) {
	lines := strings.Split(message, "\n")
	if len(lines) != 4 {
		return ParsedSignMessage{}, false
	}

	wallet, okW := strings.CutPrefix(lines[1], "Wallet: ")
	nonce, okN := strings.CutPrefix(lines[2], "Nonce: ")
	expires, okE := strings.CutPrefix(lines[3], "Expires: ")
	if !okW || !okN || !okE {
		return ParsedSignMessage{}, false
	}

	expiresAt, err := time.Parse(time.RFC3339, expires)
	if err != nil {
		return ParsedSignMessage{}, false
	}

	return ParsedSignMessage{
		Purpose:   lines[0],
		Wallet:    wallet,
		Nonce:     nonce,
		ExpiresAt: expiresAt,
	}, true
}

// verifySignedChallenge checks a signed challenge message end to end: the
// message must have the composed shape, embed the claimed wallet, still be
// within its window, and carry a signature by that wallet. Every failure
// collapses to core.ErrAuthentication except malformed signature bytes,
// which keep their distinct cause.
func verifySignedChallenge(message, signature, wallet string, now time.Time) error {
	if !eth.ValidAddress(wallet) {
		return core.ErrValidation
	}

	parsed, ok := ParseSignMessage(message)
	if !ok {
		return core.ErrAuthentication
	}
	if core.NormalizeWallet(parsed.Wallet) != core.NormalizeWallet(wallet) {
		return core.ErrAuthentication
	}
	if now.After(parsed.ExpiresAt) {
		return core.ErrAuthentication
	}

	verified, err := eth.VerifyPersonalSignature(message, signature, wallet)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrAuthentication, err)
	}
	if !verified {
		return core.ErrAuthentication
	}

	return nil
}
