package wire

import (
	"bytes"
	"fmt"

	base58 "github.com/bsv-blockchain/go-sdk/compat/base58"
)

// EncodeBase58 encodes b with the Bitcoin base58 alphabet. Leading zero
// bytes become leading '1' characters.
func EncodeBase58(b []byte) string {
	return base58.Encode(b)
}

// DecodeBase58 decodes a base58 string.
func DecodeBase58(s string) ([]byte, error) {
	out, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBase58, err)
	}
	return out, nil
}

// EncodeBase58Check appends the first four bytes of hash256(b) and encodes
// the result.
func EncodeBase58Check(b []byte) string {
	sum := Hash256(b)
	payload := make([]byte, 0, len(b)+4)
	payload = append(payload, b...)
	payload = append(payload, sum[:4]...)
	return EncodeBase58(payload)
}

// DecodeBase58Check decodes s and verifies its trailing checksum,
// returning the payload without it.
func DecodeBase58Check(s string) ([]byte, error) {
	raw, err := DecodeBase58(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4 {
		return nil, fmt.Errorf("%w: payload too short", ErrChecksum)
	}
	payload, sum := raw[:len(raw)-4], raw[len(raw)-4:]
	if !bytes.Equal(Hash256(payload)[:4], sum) {
		return nil, ErrChecksum
	}
	return payload, nil
}
