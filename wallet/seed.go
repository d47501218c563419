// Package wallet derives signing keys from a BIP39 mnemonic along BIP44
// paths and signs transaction inputs that pay to them.
//
// Key hierarchy: m/44'/{coin}'/{account}'/{chain}/{index}, coin 0 on
// mainnet and 1 on testnet.
package wallet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	bip39 "github.com/bsv-blockchain/go-sdk/compat/bip39"
	"golang.org/x/crypto/argon2"
)

// Mnemonic entropy sizes in bits.
const (
	Mnemonic12Words = 128
	Mnemonic24Words = 256
)

// Seed file layout: salt || nonce || AES-256-GCM(seed || checksum).
const (
	saltLen     = 16
	nonceLen    = 12
	checksumLen = 4

	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// GenerateMnemonic returns a fresh mnemonic of 12 or 24 words.
func GenerateMnemonic(entropyBits int) (string, error) {
	if entropyBits != Mnemonic12Words && entropyBits != Mnemonic24Words {
		return "", ErrInvalidEntropy
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("wallet: entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("wallet: mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether mnemonic is valid BIP39.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// SeedFromMnemonic derives the 64-byte BIP39 seed. An empty passphrase
// is valid and still salts the derivation.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMnemonic, err)
	}
	return seed, nil
}

func seedCipher(password string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seedChecksum(seed []byte) []byte {
	sum := sha256.Sum256(seed)
	return sum[:checksumLen]
}

// EncryptSeed seals seed under a key stretched from password with
// Argon2id.
func EncryptSeed(seed []byte, password string) ([]byte, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}

	out := make([]byte, saltLen+nonceLen, saltLen+nonceLen+len(seed)+checksumLen+16)
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("wallet: random: %w", err)
	}
	aead, err := seedCipher(password, out[:saltLen])
	if err != nil {
		return nil, fmt.Errorf("wallet: cipher: %w", err)
	}

	plaintext := append(append([]byte(nil), seed...), seedChecksum(seed)...)
	return aead.Seal(out, out[saltLen:saltLen+nonceLen], plaintext, nil), nil
}

// DecryptSeed opens a seed sealed by EncryptSeed.
func DecryptSeed(sealed []byte, password string) ([]byte, error) {
	if len(sealed) < saltLen+nonceLen+checksumLen {
		return nil, ErrDecryptionFailed
	}
	aead, err := seedCipher(password, sealed[:saltLen])
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	plaintext, err := aead.Open(nil, sealed[saltLen:saltLen+nonceLen], sealed[saltLen+nonceLen:], nil)
	if err != nil || len(plaintext) < checksumLen {
		return nil, ErrDecryptionFailed
	}

	seed := plaintext[:len(plaintext)-checksumLen]
	if subtle.ConstantTimeCompare(plaintext[len(seed):], seedChecksum(seed)) != 1 {
		return nil, ErrChecksumMismatch
	}
	return seed, nil
}
