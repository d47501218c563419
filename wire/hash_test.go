package wire

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFunctions_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		fn   func([]byte) []byte
		want string
	}{
		{"hash256", Hash256, "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456"},
		{"hash160", Hash160, "b472a266d0bd89c13706a4132ccfb16f7c3b9fcb"},
		{"sha256", Sha256, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"sha1", Sha1, "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{"ripemd160", Ripemd160, "9c1185a5c5e9fc54612808977ee8f548b2258d31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hex.EncodeToString(tt.fn([]byte{})))
		})
	}
}

func TestHash160_IsRipemdOfSha(t *testing.T) {
	data := []byte("hello")
	assert.Equal(t, Ripemd160(Sha256(data)), Hash160(data))
}

func TestHash256_IsDoubleSha(t *testing.T) {
	data := []byte("my message")
	assert.Equal(t, Sha256(Sha256(data)), Hash256(data))
}
