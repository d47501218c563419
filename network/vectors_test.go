package network

import (
	"context"
	"encoding/hex"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/block"
	"github.com/bitfsorg/libbtc-go/ecc"
	"github.com/bitfsorg/libbtc-go/script"
	"github.com/bitfsorg/libbtc-go/tx"
)

const (
	legacyTxHex = "0100000001813f79011acb80925dfe69b3def355fe914bd1d96a3f5f71bf8303c6a989c7d1000000006b483045022100ed81ff192e75a3fd2304004dcadb746fa5e24c5031ccfcf21320b0277457c98f02207a986d955c6e0cb35d446a89d3f56100f4d7f67801c31967743a9c8e10615bed01210349fc4e631e3624a545de3f89f5d8684c7b8138bd94bdd531d2e213bf016b278afeffffff02a135ef01000000001976a914bc3b654dca7e56b04dca18f2566cdaf02e8d9ada88ac99c39800000000001976a9141c4bc762dd5423e332166702cb75f40df79fea1288ac19430600"
	legacyTxID  = "452c629d67e41baec3ac6f04fe744b4b9617f8f859c63b3002f8684e7a4fee03"

	coinbaseTxHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff5e03d71b07254d696e656420627920416e74506f6f6c20626a31312f4542312f4144362f43205914293101fabe6d6d678e2c8c34afc36896e7d9402824ed38e856676ee94bfdb0c6c4bcd8b2e5666a0400000000000000c7270000a5e00e00ffffffff01faf20b58000000001976a914338c84849423992471bffb1a54a8d9b1d69dc28a88ac00000000"
	coinbaseTxID  = "51bdce0f8a1edd5bc023fd4de42edb63478ca67fc8a37a6e533229c17d794d3f"
)

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func mustID(t testing.TB, s string) [32]byte {
	t.Helper()
	id, err := ParseTxID(s)
	require.NoError(t, err)
	return id
}

// rawTxSource serves raw transactions from memory and counts fetches.
func rawTxSource(txs map[string][]byte, calls *atomic.Int32) *MockChainSource {
	return &MockChainSource{
		GetRawTxFn: func(ctx context.Context, txid string) ([]byte, error) {
			calls.Add(1)
			raw, ok := txs[txid]
			if !ok {
				return nil, ErrTxNotFound
			}
			return raw, nil
		},
	}
}

// fundedKey returns a key and a transaction paying 50000 satoshis to its
// compressed P2PKH address.
func fundedKey(t *testing.T) (*ecc.PrivateKey, *tx.Tx) {
	t.Helper()
	key, err := ecc.NewPrivateKey(big.NewInt(8675309))
	require.NoError(t, err)

	spk := script.P2PKH(key.PublicKey().Hash160(true))
	funding := tx.New(1,
		[]*tx.TxIn{tx.NewTxIn(mustID(t, coinbaseTxID), 0)},
		[]*tx.TxOut{tx.NewTxOut(50_000, spk)},
		0, false)
	return key, funding
}

// mineHeader grinds the nonce of a minimum-difficulty regtest header.
func mineHeader(prev, merkleRoot [32]byte, timestamp uint32) *block.Header {
	h := &block.Header{
		Version:    1,
		PrevBlock:  prev,
		MerkleRoot: merkleRoot,
		Timestamp:  timestamp,
		Bits:       0x207fffff,
	}
	for !h.CheckPoW() {
		h.Nonce++
	}
	return h
}
