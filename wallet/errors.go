package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits other than 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates an empty seed.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrInvalidPath indicates a malformed or out-of-range derivation path.
	ErrInvalidPath = errors.New("wallet: invalid derivation path")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrDecryptionFailed indicates a wrong password or corrupted seed file.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed")

	// ErrChecksumMismatch indicates the decrypted seed failed its checksum.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrKeyNotFound indicates no key in the keyring can sign an input.
	ErrKeyNotFound = errors.New("wallet: no key for input")

	// ErrSignFailed indicates a signed input did not verify.
	ErrSignFailed = errors.New("wallet: signed input does not verify")
)
