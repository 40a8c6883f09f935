package eth

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

func signText(t *testing.T, keyHex, message string) string {
	t.Helper()

	key, err := crypto.HexToECDSA(keyHex)
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	// Wallets report the recovery id as 27/28.
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

const (
	testKey  = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	testAddr = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
	otherKey = "8a1f9a8f95be41cd7ccb6168179afb4504aefe388d1e14474d32c45c72ce7b7a"
)

func TestVerifyPersonalSignature(t *testing.T) {
	message := "Login to EuroCon\nWallet: " + testAddr

	sig := signText(t, testKey, message)

	ok, err := VerifyPersonalSignature(message, sig, testAddr)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyPersonalSignatureCaseInsensitive(t *testing.T) {
	message := "case test"
	sig := signText(t, testKey, message)

	ok, err := VerifyPersonalSignature(message, sig, strings.ToLower(testAddr))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPersonalSignature(message, sig, strings.ToUpper(testAddr[:2])+strings.ToUpper(testAddr[2:]))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyPersonalSignatureWrongSigner(t *testing.T) {
	message := "who signed this"
	sig := signText(t, otherKey, message)

	// A clean recovery of the wrong signer is a boolean false, not an error.
	ok, err := VerifyPersonalSignature(message, sig, testAddr)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPersonalSignatureAlteredMessage(t *testing.T) {
	sig := signText(t, testKey, "original message")

	ok, err := VerifyPersonalSignature("tampered message", sig, testAddr)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyPersonalSignatureMalformed(t *testing.T) {
	for _, sig := range []string{"", "not-hex", "0x1234", "0x" + strings.Repeat("00", 64)} {
		_, err := VerifyPersonalSignature("msg", sig, testAddr)
		require.ErrorIs(t, err, core.ErrMalformedSignature, "signature %q", sig)
	}
}

func TestVerifyPersonalSignatureInvalidAddress(t *testing.T) {
	sig := signText(t, testKey, "msg")

	_, err := VerifyPersonalSignature("msg", sig, "not-an-address")
	require.ErrorIs(t, err, core.ErrInvalidAddress)
}

func TestRecoverSignerNormalizesRecoveryID(t *testing.T) {
	message := "recovery id handling"

	key, err := crypto.HexToECDSA(testKey)
	require.NoError(t, err)

	raw, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)

	// Both the raw 0/1 form and the wallet 27/28 form must recover.
	addr, err := RecoverSigner(message, hexutil.Encode(raw))
	require.NoError(t, err)
	require.Equal(t, testAddr, addr.Hex())

	raw[crypto.RecoveryIDOffset] += 27
	addr, err = RecoverSigner(message, hexutil.Encode(raw))
	require.NoError(t, err)
	require.Equal(t, testAddr, addr.Hex())
}
