package ecc

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/bitfsorg/libbtc-go/wire"
)

// PrivateKey is a secp256k1 secret scalar together with its public point.
type PrivateKey struct {
	secret *big.Int
	pub    *Point
}

// NewPrivateKey derives the public point for secret.
func NewPrivateKey(secret *big.Int) (*PrivateKey, error) {
	if secret.Sign() <= 0 || secret.Cmp(curveN) >= 0 {
		return nil, ErrInvalidSecret
	}
	return &PrivateKey{
		secret: new(big.Int).Set(secret),
		pub:    generator.ScalarMul(secret),
	}, nil
}

// PublicKey returns secret*G.
func (k *PrivateKey) PublicKey() *Point { return k.pub }

// Secret returns a copy of the secret scalar.
func (k *PrivateKey) Secret() *big.Int { return new(big.Int).Set(k.secret) }

// Sign signs z with a nonce derived per RFC 6979 (HMAC-SHA256), so the
// same key and message always give the same signature.
func (k *PrivateKey) Sign(z *big.Int) *Signature {
	secret := k.secret.FillBytes(make([]byte, 32))
	hash := new(big.Int).Mod(z, curveN).FillBytes(make([]byte, 32))
	for iter := uint32(0); ; iter++ {
		scalar := secp256k1.NonceRFC6979(secret, hash, nil, nil, iter)
		nonce := scalar.Bytes()
		sig, err := k.SignWithNonce(z, new(big.Int).SetBytes(nonce[:]))
		scalar.Zero()
		if err == nil {
			return sig
		}
	}
}

// SignWithNonce signs z using the caller supplied nonce. The returned s is
// normalized to the lower half of the group order.
func (k *PrivateKey) SignWithNonce(z, nonce *big.Int) (*Signature, error) {
	if nonce.Sign() <= 0 || nonce.Cmp(curveN) >= 0 {
		return nil, fmt.Errorf("%w: out of range", ErrInvalidNonce)
	}

	r := new(big.Int).Mod(generator.ScalarMul(nonce).x.num, curveN)
	if r.Sign() == 0 {
		return nil, fmt.Errorf("%w: r is zero", ErrInvalidNonce)
	}

	kInv := new(big.Int).Exp(nonce, new(big.Int).Sub(curveN, big.NewInt(2)), curveN)
	s := new(big.Int).Mul(r, k.secret)
	s.Add(s, z)
	s.Mul(s, kInv)
	s.Mod(s, curveN)
	if s.Sign() == 0 {
		return nil, fmt.Errorf("%w: s is zero", ErrInvalidNonce)
	}
	if s.Cmp(halfN) > 0 {
		s.Sub(curveN, s)
	}
	return &Signature{R: r, S: s}, nil
}

// WIF returns the wallet import format encoding of the secret.
func (k *PrivateKey) WIF(compressed, testnet bool) string {
	prefix := byte(0x80)
	if testnet {
		prefix = 0xef
	}
	payload := make([]byte, 0, 34)
	payload = append(payload, prefix)
	payload = append(payload, k.secret.FillBytes(make([]byte, 32))...)
	if compressed {
		payload = append(payload, 0x01)
	}
	return wire.EncodeBase58Check(payload)
}
