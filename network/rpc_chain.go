package network

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/libbtc-go/block"
)

// Compile-time interface check.
var _ ChainSource = (*RPCClient)(nil)

func (c *RPCClient) callHex(ctx context.Context, method string, params []interface{}) ([]byte, error) {
	var s string
	if err := c.Call(ctx, method, params, &s); err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: invalid hex: %v", ErrInvalidResponse, method, err)
	}
	return data, nil
}

// GetRawTx calls `getrawtransaction "txid" false`.
func (c *RPCClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	if _, err := ParseTxID(txid); err != nil {
		return nil, err
	}
	return c.callHex(ctx, "getrawtransaction", []interface{}{txid, false})
}

type verboseTxResult struct {
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"blockhash"`
	BlockHeight   uint64 `json:"blockheight"`
}

type blockHeaderResult struct {
	Height uint64 `json:"height"`
}

// GetTxStatus calls `getrawtransaction "txid" true`. Nodes that omit
// blockheight from the verbose reply are asked for the block's height.
func (c *RPCClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	if _, err := ParseTxID(txid); err != nil {
		return nil, err
	}
	var res verboseTxResult
	if err := c.Call(ctx, "getrawtransaction", []interface{}{txid, true}, &res); err != nil {
		return nil, err
	}
	st := &TxStatus{Confirmed: res.Confirmations > 0, BlockHash: res.BlockHash, BlockHeight: res.BlockHeight}
	if st.Confirmed && st.BlockHeight == 0 && st.BlockHash != "" {
		var hdr blockHeaderResult
		if err := c.Call(ctx, "getblockheader", []interface{}{st.BlockHash, true}, &hdr); err != nil {
			return nil, err
		}
		st.BlockHeight = hdr.Height
	}
	return st, nil
}

// GetBlockHeader calls `getblockheader "hash" false`.
func (c *RPCClient) GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error) {
	if _, err := ParseTxID(blockHash); err != nil {
		return nil, err
	}
	return c.callHex(ctx, "getblockheader", []interface{}{blockHash, false})
}

// GetBlockHash calls `getblockhash height`.
func (c *RPCClient) GetBlockHash(ctx context.Context, height uint64) (string, error) {
	var hash string
	if err := c.Call(ctx, "getblockhash", []interface{}{height}, &hash); err != nil {
		return "", err
	}
	if _, err := ParseTxID(hash); err != nil {
		return "", fmt.Errorf("%w: block hash: %w", ErrInvalidResponse, err)
	}
	return hash, nil
}

// GetMerkleProof calls `gettxoutproof ["txid"]` and extracts the branch for
// txid from the returned merkle block.
func (c *RPCClient) GetMerkleProof(ctx context.Context, txid string) (*block.MerkleProof, error) {
	id, err := ParseTxID(txid)
	if err != nil {
		return nil, err
	}
	data, err := c.callHex(ctx, "gettxoutproof", []interface{}{[]string{txid}})
	if err != nil {
		return nil, err
	}
	mb, err := block.ParseMerkleBlockBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	proof, err := mb.ProofFor(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return proof, nil
}

// GetBestBlockHeight calls `getblockcount`.
func (c *RPCClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	var height uint64
	if err := c.Call(ctx, "getblockcount", nil, &height); err != nil {
		return 0, err
	}
	return height, nil
}
