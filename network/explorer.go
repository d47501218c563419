package network

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitfsorg/libbtc-go/block"
)

// DefaultExplorerURL is the Esplora instance used when no endpoint is configured.
const DefaultExplorerURL = "https://blockstream.info"

// maxResponseSize bounds a response body; a 4 MB transaction is 8 MB of hex.
const maxResponseSize = 16 << 20

// Compile-time interface check.
var _ ChainSource = (*ExplorerClient)(nil)

// ExplorerClient talks to an Esplora-style block explorer REST API.
// Testnet requests go to {base}/testnet/api, mainnet ones to {base}/api.
type ExplorerClient struct {
	baseURL string
	testnet bool
	client  *http.Client
}

// NewExplorerClient returns a client for the explorer at baseURL.
func NewExplorerClient(baseURL string, testnet bool) *ExplorerClient {
	return &ExplorerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		testnet: testnet,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// URL returns the absolute URL for an API path.
func (c *ExplorerClient) URL(path string) string {
	base := c.baseURL
	if c.testnet {
		base += "/testnet"
	}
	return base + "/api" + path
}

// get fetches path and returns the body of a 2xx response. A 404 maps to
// ErrTxNotFound.
func (c *ExplorerClient) get(ctx context.Context, path string) ([]byte, error) {
	url := c.URL(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("network: create request: %w", err)
	}

	log.Tracef("GET %s", url)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrConnectionFailed, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrTxNotFound, bytes.TrimSpace(body))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrConnectionFailed, resp.StatusCode, truncate(body, 1024))
	}
	return body, nil
}

func (c *ExplorerClient) getHex(ctx context.Context, path string) ([]byte, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %v", ErrInvalidResponse, err)
	}
	return data, nil
}

func (c *ExplorerClient) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrInvalidResponse, path, err)
	}
	return nil
}

// GetRawTx fetches GET /tx/{txid}/hex.
func (c *ExplorerClient) GetRawTx(ctx context.Context, txid string) ([]byte, error) {
	if _, err := ParseTxID(txid); err != nil {
		return nil, err
	}
	return c.getHex(ctx, "/tx/"+txid+"/hex")
}

type esploraStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
}

// GetTxStatus fetches GET /tx/{txid}/status.
func (c *ExplorerClient) GetTxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	if _, err := ParseTxID(txid); err != nil {
		return nil, err
	}
	var st esploraStatus
	if err := c.getJSON(ctx, "/tx/"+txid+"/status", &st); err != nil {
		return nil, err
	}
	return &TxStatus{Confirmed: st.Confirmed, BlockHash: st.BlockHash, BlockHeight: st.BlockHeight}, nil
}

// GetBlockHeader fetches GET /block/{hash}/header.
func (c *ExplorerClient) GetBlockHeader(ctx context.Context, blockHash string) ([]byte, error) {
	if _, err := ParseTxID(blockHash); err != nil {
		return nil, err
	}
	return c.getHex(ctx, "/block/"+blockHash+"/header")
}

// GetBlockHash fetches GET /block-height/{height}.
func (c *ExplorerClient) GetBlockHash(ctx context.Context, height uint64) (string, error) {
	body, err := c.get(ctx, "/block-height/"+strconv.FormatUint(height, 10))
	if err != nil {
		return "", err
	}
	hash := string(bytes.TrimSpace(body))
	if _, err := ParseTxID(hash); err != nil {
		return "", fmt.Errorf("%w: block hash: %w", ErrInvalidResponse, err)
	}
	return hash, nil
}

type esploraMerkleProof struct {
	BlockHeight uint64   `json:"block_height"`
	Merkle      []string `json:"merkle"`
	Pos         uint32   `json:"pos"`
}

// GetMerkleProof fetches GET /tx/{txid}/merkle-proof. The explorer lists
// sibling hashes in display order.
func (c *ExplorerClient) GetMerkleProof(ctx context.Context, txid string) (*block.MerkleProof, error) {
	txHash, err := decodeHash(txid)
	if err != nil {
		return nil, err
	}
	var mp esploraMerkleProof
	if err := c.getJSON(ctx, "/tx/"+txid+"/merkle-proof", &mp); err != nil {
		return nil, err
	}
	proof := &block.MerkleProof{TxHash: txHash, Index: mp.Pos, Nodes: make([][32]byte, len(mp.Merkle))}
	for i, node := range mp.Merkle {
		if proof.Nodes[i], err = decodeHash(node); err != nil {
			return nil, fmt.Errorf("%w: merkle node %d: %w", ErrInvalidResponse, i, err)
		}
	}
	return proof, nil
}

// GetBestBlockHeight fetches GET /blocks/tip/height.
func (c *ExplorerClient) GetBestBlockHeight(ctx context.Context) (uint64, error) {
	body, err := c.get(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(string(bytes.TrimSpace(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid block height: %v", ErrInvalidResponse, err)
	}
	return height, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
