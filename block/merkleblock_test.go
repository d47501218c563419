package block

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/wire"
)

// Testnet merkle block for 3519 transactions proving one match.
const merkleBlockHex = "00000020df3b053dc46f162a9b00c7f0d5124e2676d47bbe7c5d0793a500000000000000ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4dc7c835b67d8001ac157e670bf0d00000aba412a0d1480e370173072c9562becffe87aa661c1e4a6dbc305d38ec5dc088a7cf92e6458aca7b32edae818f9c2c98c37e06bf72ae0ce80649a38655ee1e27d34d9421d940b16732f24b94023e9d572a7f9ab8023434a4feb532d2adfc8c2c2158785d1bd04eb99df2e86c54bc13e139862897217400def5d72c280222c4cbaee7261831e1550dbb8fa82853e9fe506fc5fda3f7b919d8fe74b6282f92763cef8e625f977af7c8619c32a369b832bc2d051ecd9c73c51e76370ceabd4f25097c256597fa898d404ed53425de608ac6bfe426f6e2bb457f1c554866eb69dcb8d6bf6f880e9a59b3cd053e6c7060eeacaacf4dac6697dac20e4bd3f38a2ea2543d1ab7953e3430790a9f81e1c67f5b58c825acf46bd02848384eebe9af917274cdfbb1a28a5d58a23a17977def0de10d644258d9c54f886d47d293a411cb6226103b55635"

const merkleBlockMatch = "6122b61c413a297dd486f8549c8d2544d610def0de7779a1238ad5a5281abbdf"

func displayID(t testing.TB, s string) [32]byte {
	t.Helper()
	return [32]byte(mustHex(t, s))
}

// --- Parsing ---

func TestParseMerkleBlock(t *testing.T) {
	mb, err := ParseMerkleBlockBytes(mustHex(t, merkleBlockHex))
	require.NoError(t, err)

	assert.Equal(t, "00000000000000cac712b726e4326e596170574c01a16001692510c44025eb30", mb.Header.Hash())
	assert.Equal(t, uint32(3519), mb.Total)
	assert.Len(t, mb.Hashes, 10)
	assert.Equal(t, []byte{0xb5, 0x56, 0x35}, mb.Flags)
}

func TestParseMerkleBlock_Errors(t *testing.T) {
	raw := mustHex(t, merkleBlockHex)

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated flags", raw[:len(raw)-1]},
		{"truncated hashes", raw[:100]},
		{"trailing byte", append(append([]byte{}, raw...), 0x00)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMerkleBlockBytes(tt.data)
			assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
		})
	}

	_, err := ParseMerkleBlock(bytes.NewReader(raw[:40]))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

// --- Proof extraction ---

func TestMerkleBlockProofs(t *testing.T) {
	mb, err := ParseMerkleBlockBytes(mustHex(t, merkleBlockHex))
	require.NoError(t, err)

	proofs, err := mb.Proofs()
	require.NoError(t, err)
	require.Len(t, proofs, 1)

	p := proofs[0]
	assert.Equal(t, uint32(3518), p.Index)
	assert.Len(t, p.Nodes, 12)
	assert.Equal(t, merkleBlockMatch, hex.EncodeToString(wire.Reverse(p.TxHash[:])))

	require.NoError(t, mb.Header.VerifyTx(displayID(t, merkleBlockMatch), p))
}

func TestMerkleBlockProofFor(t *testing.T) {
	mb, err := ParseMerkleBlockBytes(mustHex(t, merkleBlockHex))
	require.NoError(t, err)

	p, err := mb.ProofFor(displayID(t, merkleBlockMatch))
	require.NoError(t, err)
	assert.Equal(t, uint32(3518), p.Index)

	_, err = mb.ProofFor(displayID(t, strings.Repeat("11", 32)))
	assert.ErrorIs(t, err, ErrMerkleProofInvalid)
}

func TestMerkleBlockProofs_Invalid(t *testing.T) {
	parse := func(t *testing.T) *MerkleBlock {
		mb, err := ParseMerkleBlockBytes(mustHex(t, merkleBlockHex))
		require.NoError(t, err)
		return mb
	}

	t.Run("tampered hash", func(t *testing.T) {
		mb := parse(t)
		mb.Hashes[0][0] ^= 1
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrMerkleProofInvalid)
	})

	t.Run("extra flag byte", func(t *testing.T) {
		mb := parse(t)
		mb.Flags = append(mb.Flags, 0x00)
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
	})

	t.Run("unused hash", func(t *testing.T) {
		mb := parse(t)
		mb.Hashes = append(mb.Hashes, [32]byte{})
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
	})

	t.Run("missing hashes", func(t *testing.T) {
		mb := parse(t)
		mb.Hashes = mb.Hashes[:5]
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
	})

	t.Run("no flags", func(t *testing.T) {
		mb := parse(t)
		mb.Flags = nil
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
	})

	t.Run("empty block", func(t *testing.T) {
		mb := parse(t)
		mb.Total = 0
		_, err := mb.Proofs()
		assert.ErrorIs(t, err, ErrInvalidMerkleBlock)
	})

	t.Run("nil header", func(t *testing.T) {
		_, err := (&MerkleBlock{Total: 1}).Proofs()
		assert.ErrorIs(t, err, ErrNilParam)
	})
}

func TestMerkleBlockProofs_SingleTx(t *testing.T) {
	h, err := ParseHeaderBytes(mustHex(t, block1Header))
	require.NoError(t, err)

	coinbase := [32]byte(wire.Reverse(h.MerkleRoot[:]))
	mb := &MerkleBlock{Header: h, Total: 1, Hashes: [][32]byte{coinbase}, Flags: []byte{0x01}}

	proofs, err := mb.Proofs()
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Empty(t, proofs[0].Nodes)
	assert.Equal(t, coinbase, proofs[0].TxHash)
}
