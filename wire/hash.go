package wire

import (
	"crypto/sha1" //nolint:gosec // OP_SHA1 is part of the script language
	"crypto/sha256"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // OP_RIPEMD160 needs it
)

// Hash256 computes SHA256(SHA256(data)).
func Hash256(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

// Hash160 computes RIPEMD160(SHA256(data)).
func Hash160(data []byte) []byte {
	return bsvhash.Hash160(data)
}

// Sha256 computes a single SHA256 digest.
func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// Sha1 computes a SHA1 digest.
func Sha1(data []byte) []byte {
	h := sha1.Sum(data) //nolint:gosec
	return h[:]
}

// Ripemd160 computes a RIPEMD160 digest.
func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}
