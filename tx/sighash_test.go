package tx

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/script"
)

func zHex(t *testing.T, tx *Tx, i int, prevOut *TxOut) string {
	t.Helper()
	z, err := tx.SigHash(i, prevOut, nil)
	require.NoError(t, err)
	return fmt.Sprintf("%064x", z)
}

// --- Legacy ---

func TestSigHash_Legacy(t *testing.T) {
	tx := mustParse(t, legacyTxHex)
	prev := NewTxOut(legacyPrevAmount, mustScript(t, legacyPrevScript))
	assert.Equal(t, "27e0c5994dec7824e56dec6b2fcb342eb7cdb0d0957c2fce9882f715e85d81a6", zHex(t, tx, 0, prev))
}

func TestSigHash_IgnoresOtherScriptSigs(t *testing.T) {
	tx := mustParse(t, multiInputTxHex)
	prev := NewTxOut(0, script.P2PKH(make([]byte, 20)))
	before := zHex(t, tx, 1, prev)

	tx.Inputs[0].ScriptSig = script.New(script.Op(script.OpTRUE))
	tx.Inputs[1].ScriptSig = script.New()
	assert.Equal(t, before, zHex(t, tx, 1, prev))

	tx.Inputs[2].Sequence--
	assert.NotEqual(t, before, zHex(t, tx, 1, prev))
}

func TestSigHash_RedeemScriptReplacesPrevOut(t *testing.T) {
	tx := mustParse(t, legacyTxHex)
	redeem := mustScript(t, legacyPrevScript)

	withRedeem, err := tx.SigHash(0, nil, redeem)
	require.NoError(t, err)
	viaPrev, err := tx.SigHash(0, NewTxOut(1, redeem), nil)
	require.NoError(t, err)
	assert.Equal(t, viaPrev, withRedeem)
}

func TestSigHash_Errors(t *testing.T) {
	tx := mustParse(t, legacyTxHex)
	prev := NewTxOut(legacyPrevAmount, mustScript(t, legacyPrevScript))

	_, err := tx.SigHash(1, prev, nil)
	assert.ErrorIs(t, err, ErrInputIndex)
	_, err = tx.SigHash(-1, prev, nil)
	assert.ErrorIs(t, err, ErrInputIndex)
	_, err = tx.SigHash(0, nil, nil)
	assert.ErrorIs(t, err, ErrNilParam)
}

// --- BIP143 ---

func TestMidstate(t *testing.T) {
	ms := mustParse(t, bip143UnsignedHex).Midstate()
	assert.Equal(t, bip143HashPrev, hex.EncodeToString(ms.HashPrevouts[:]))
	assert.Equal(t, bip143HashSeq, hex.EncodeToString(ms.HashSequence[:]))
	assert.Equal(t, bip143HashOuts, hex.EncodeToString(ms.HashOutputs[:]))
}

func TestMidstate_IgnoresWitnessData(t *testing.T) {
	unsigned := mustParse(t, bip143UnsignedHex).Midstate()
	signed := mustParse(t, bip143SignedHex).Midstate()
	assert.Equal(t, unsigned, signed)
}

func TestSigHashBIP143_P2WPKH(t *testing.T) {
	tx := mustParse(t, bip143UnsignedHex)
	prev := NewTxOut(bip143Amount1, mustScript(t, bip143Script1))

	z, err := tx.SigHashBIP143(1, nil, prev, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, bip143SigHash1, fmt.Sprintf("%064x", z))

	zm, err := tx.SigHashBIP143(1, tx.Midstate(), prev, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, z, zm)
}

func TestSigHashBIP143_ScriptCodes(t *testing.T) {
	tx := mustParse(t, bip143UnsignedHex)
	native := NewTxOut(bip143Amount1, mustScript(t, bip143Script1))
	want, err := tx.SigHashBIP143(1, nil, native, nil, nil)
	require.NoError(t, err)

	// P2SH-P2WPKH: the key hash comes from the redeem script.
	nested := NewTxOut(bip143Amount1, script.P2SH(make([]byte, 20)))
	z, err := tx.SigHashBIP143(1, nil, nested, mustScript(t, bip143Script1), nil)
	require.NoError(t, err)
	assert.Equal(t, want, z)

	// A witness script equal to the P2PKH script code.
	code := script.P2PKH(mustScript(t, bip143Script1).Hash())
	z, err = tx.SigHashBIP143(1, nil, nested, nil, code)
	require.NoError(t, err)
	assert.Equal(t, want, z)
}

func TestSigHashBIP143_CommitsToAmount(t *testing.T) {
	tx := mustParse(t, bip143UnsignedHex)
	a, err := tx.SigHashBIP143(1, nil, NewTxOut(bip143Amount1, mustScript(t, bip143Script1)), nil, nil)
	require.NoError(t, err)
	b, err := tx.SigHashBIP143(1, nil, NewTxOut(bip143Amount1+1, mustScript(t, bip143Script1)), nil, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSigHashBIP143_Errors(t *testing.T) {
	tx := mustParse(t, bip143UnsignedHex)
	p2wpkh := NewTxOut(bip143Amount1, mustScript(t, bip143Script1))
	p2pk := NewTxOut(bip143Amount0, mustScript(t, bip143Script0))

	tests := []struct {
		name    string
		i       int
		prev    *TxOut
		redeem  *script.Script
		wantErr error
	}{
		{"index past end", 2, p2wpkh, nil, ErrInputIndex},
		{"nil previous output", 1, nil, nil, ErrNilParam},
		{"non-witness previous output", 0, p2pk, nil, ErrScriptType},
		{"redeem script not p2wpkh", 1, p2wpkh, mustScript(t, bip143Script0), ErrScriptType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tx.SigHashBIP143(tt.i, nil, tt.prev, tt.redeem, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
