package wallet

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libbtc-go/ecc"
)

const (
	// PurposeBIP44 is the first path level of every derived key.
	PurposeBIP44 = 44

	// BIP44 coin types.
	CoinTypeMainnet = 0
	CoinTypeTestnet = 1

	// Chain indices.
	ExternalChain = 0
	InternalChain = 1

	// Hardened is the BIP32 hardened index offset.
	Hardened = 0x80000000

	// MaxPathDepth is the deepest path a BIP32 key can record.
	MaxPathDepth = 255
)

// Key is a derived signing key.
type Key struct {
	Private *ecc.PrivateKey
	Path    string
}

// PubKeyHash returns hash160 of the compressed public key.
func (k *Key) PubKeyHash() []byte {
	return k.Private.PublicKey().Hash160(true)
}

// Address returns the compressed P2PKH address of k.
func (k *Key) Address(testnet bool) string {
	return k.Private.PublicKey().Address(true, testnet)
}

// Wallet derives keys from a BIP32 master key.
type Wallet struct {
	master  *bip32.ExtendedKey
	testnet bool
}

// NewWallet creates a wallet from a BIP39 seed.
func NewWallet(seed []byte, testnet bool) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	params := &chaincfg.MainNet
	if testnet {
		params = &chaincfg.TestNet
	}
	master, err := bip32.NewMaster(seed, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{master: master, testnet: testnet}, nil
}

// NewWalletFromMnemonic is SeedFromMnemonic followed by NewWallet.
func NewWalletFromMnemonic(mnemonic, passphrase string, testnet bool) (*Wallet, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	return NewWallet(seed, testnet)
}

// Testnet reports whether the wallet derives testnet keys.
func (w *Wallet) Testnet() bool { return w.testnet }

// CoinType returns the BIP44 coin type of the wallet's network.
func (w *Wallet) CoinType() uint32 {
	if w.testnet {
		return CoinTypeTestnet
	}
	return CoinTypeMainnet
}

// DeriveKey derives m/44'/coin'/account'/chain/index.
func (w *Wallet) DeriveKey(account, chain, index uint32) (*Key, error) {
	if account >= Hardened || index >= Hardened {
		return nil, fmt.Errorf("%w: index out of range", ErrInvalidPath)
	}
	if chain != ExternalChain && chain != InternalChain {
		return nil, fmt.Errorf("%w: chain %d", ErrInvalidPath, chain)
	}
	return w.derive([]uint32{
		PurposeBIP44 + Hardened,
		w.CoinType() + Hardened,
		account + Hardened,
		chain,
		index,
	})
}

// DerivePath derives the key at a path such as "m/44'/0'/0'/0/7".
func (w *Wallet) DerivePath(path string) (*Key, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return w.derive(indices)
}

func (w *Wallet) derive(indices []uint32) (*Key, error) {
	current := w.master
	for depth, idx := range indices {
		next, err := current.Child(idx)
		if err != nil {
			return nil, fmt.Errorf("%w: depth %d: %w", ErrDerivationFailed, depth, err)
		}
		current = next
	}

	priv, err := current.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	key, err := ecc.NewPrivateKey(new(big.Int).SetBytes(priv.Serialize()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Key{Private: key, Path: FormatPath(indices)}, nil
}

// ParsePath parses "m" followed by "/"-separated indices; a trailing '
// or h marks a hardened index.
func ParsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if parts[0] != "m" {
		return nil, fmt.Errorf("%w: %q must start with m", ErrInvalidPath, path)
	}
	parts = parts[1:]
	if len(parts) > MaxPathDepth {
		return nil, fmt.Errorf("%w: deeper than %d", ErrInvalidPath, MaxPathDepth)
	}

	indices := make([]uint32, 0, len(parts))
	for _, p := range parts {
		var offset uint32
		if trimmed := strings.TrimRight(p, "'h"); len(trimmed) == len(p)-1 {
			p, offset = trimmed, Hardened
		}
		n, err := strconv.ParseUint(p, 10, 31)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
		}
		indices = append(indices, uint32(n)+offset)
	}
	return indices, nil
}

// FormatPath renders indices with ' marking hardened levels.
func FormatPath(indices []uint32) string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range indices {
		if idx >= Hardened {
			fmt.Fprintf(&b, "/%d'", idx-Hardened)
		} else {
			fmt.Fprintf(&b, "/%d", idx)
		}
	}
	return b.String()
}
