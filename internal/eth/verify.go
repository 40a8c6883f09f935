// Package eth verifies EIP-191 personal-message signatures as produced by
// wallet personal_sign, recovering the signer address from the raw message
// and signature.
package eth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Pizajolo/nft-ticket-registration/core"
)

// ValidAddress reports whether s is a syntactically valid hex address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// RecoverSigner recovers the address that signed message with the given
// 65-byte hex signature. Undecodable or structurally broken signature
// bytes fail with core.ErrMalformedSignature; that is distinct from a
// clean recovery of the wrong signer, which is not an error here.
func RecoverSigner(message, signatureHex string) (common.Address, error) {
	raw, err := hexutil.Decode(signatureHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("decode signature: %w", core.ErrMalformedSignature)
	}
	if len(raw) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes: %w", crypto.SignatureLength, core.ErrMalformedSignature)
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, raw)
	// Wallets produce recovery ids of 27/28; SigToPub wants 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", core.ErrMalformedSignature)
	}

	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyPersonalSignature reports whether signatureHex over message was
// produced by claimedWallet. Comparison is case-insensitive. A signature
// that recovers cleanly to a different address returns (false, nil); only
// malformed input returns an error.
func VerifyPersonalSignature(message, signatureHex, claimedWallet string) (bool, error) {
	if !common.IsHexAddress(claimedWallet) {
		return false, core.ErrInvalidAddress
	}

	signer, err := RecoverSigner(message, signatureHex)
	if err != nil {
		return false, err
	}

	return signer == common.HexToAddress(claimedWallet), nil
}
