package block

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bitfsorg/libbtc-go/wire"
)

// MerkleBlock is a header plus a partial merkle tree (BIP 37) proving a
// subset of the block's transactions. A node's gettxoutproof returns one.
type MerkleBlock struct {
	Header *Header
	// Total is the number of transactions in the block.
	Total uint32
	// Hashes are the partial tree hashes in depth-first order, wire order.
	Hashes [][32]byte
	// Flags are the traversal bits, least significant bit first.
	Flags []byte
}

type nodeKey struct {
	height uint32
	pos    uint32
}

// merkleWalk holds the traversal cursor over a MerkleBlock.
type merkleWalk struct {
	mb      *MerkleBlock
	bit     int
	hash    int
	nodes   map[nodeKey][32]byte
	matches []uint32
}

// ParseMerkleBlock reads a serialized merkle block from r.
func ParseMerkleBlock(r io.Reader) (*MerkleBlock, error) {
	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	total, err := wire.ReadUint32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: total: %w", ErrInvalidMerkleBlock, err)
	}
	n, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: hash count: %w", ErrInvalidMerkleBlock, err)
	}
	if n > uint64(total) {
		return nil, fmt.Errorf("%w: %d hashes for %d transactions", ErrInvalidMerkleBlock, n, total)
	}
	mb := &MerkleBlock{Header: h, Total: total, Hashes: make([][32]byte, n)}
	for i := range mb.Hashes {
		if _, err := io.ReadFull(r, mb.Hashes[i][:]); err != nil {
			return nil, fmt.Errorf("%w: hash %d: %w", ErrInvalidMerkleBlock, i, err)
		}
	}
	nFlags, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: flag count: %w", ErrInvalidMerkleBlock, err)
	}
	if mb.Flags, err = wire.ReadBytes(r, nFlags); err != nil {
		return nil, fmt.Errorf("%w: flags: %w", ErrInvalidMerkleBlock, err)
	}
	return mb, nil
}

// ParseMerkleBlockBytes parses data, which must hold exactly one merkle block.
func ParseMerkleBlockBytes(data []byte) (*MerkleBlock, error) {
	r := bytes.NewReader(data)
	mb, err := ParseMerkleBlock(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidMerkleBlock, r.Len())
	}
	return mb, nil
}

// treeWidth is the number of nodes at height h of a tree over total leaves.
func treeWidth(total, h uint32) uint32 {
	return uint32((uint64(total) + (1 << h) - 1) >> h)
}

func treeHeight(total uint32) uint32 {
	var h uint32
	for treeWidth(total, h) > 1 {
		h++
	}
	return h
}

// Proofs walks the partial tree, checks it reproduces the header's merkle
// root and returns one MerkleProof per matched transaction.
func (mb *MerkleBlock) Proofs() ([]*MerkleProof, error) {
	if mb.Header == nil {
		return nil, fmt.Errorf("%w: header", ErrNilParam)
	}
	if mb.Total == 0 {
		return nil, fmt.Errorf("%w: empty block", ErrInvalidMerkleBlock)
	}

	w := &merkleWalk{mb: mb, nodes: make(map[nodeKey][32]byte)}
	height := treeHeight(mb.Total)
	root, err := w.walk(height, 0)
	if err != nil {
		return nil, err
	}
	if w.hash != len(mb.Hashes) {
		return nil, fmt.Errorf("%w: %d unused hashes", ErrInvalidMerkleBlock, len(mb.Hashes)-w.hash)
	}
	if (w.bit+7)/8 != len(mb.Flags) {
		return nil, fmt.Errorf("%w: unused flag bytes", ErrInvalidMerkleBlock)
	}
	if root != [32]byte(wire.Reverse(mb.Header.MerkleRoot[:])) {
		return nil, ErrMerkleProofInvalid
	}

	proofs := make([]*MerkleProof, 0, len(w.matches))
	for _, leaf := range w.matches {
		p := &MerkleProof{TxHash: w.nodes[nodeKey{0, leaf}], Index: leaf}
		pos := leaf
		for h := uint32(0); h < height; h++ {
			sibling := pos ^ 1
			if sibling >= treeWidth(mb.Total, h) {
				sibling = pos
			}
			node, ok := w.nodes[nodeKey{h, sibling}]
			if !ok {
				return nil, fmt.Errorf("%w: missing sibling of leaf %d at height %d", ErrInvalidMerkleBlock, leaf, h)
			}
			p.Nodes = append(p.Nodes, node)
			pos /= 2
		}
		proofs = append(proofs, p)
	}
	return proofs, nil
}

// ProofFor returns the proof for the transaction with display-order id txID.
func (mb *MerkleBlock) ProofFor(txID [32]byte) (*MerkleProof, error) {
	proofs, err := mb.Proofs()
	if err != nil {
		return nil, err
	}
	want := [32]byte(wire.Reverse(txID[:]))
	for _, p := range proofs {
		if p.TxHash == want {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: transaction not matched", ErrMerkleProofInvalid)
}

func (w *merkleWalk) walk(height, pos uint32) ([32]byte, error) {
	if w.bit >= 8*len(w.mb.Flags) {
		return [32]byte{}, fmt.Errorf("%w: ran out of flag bits", ErrInvalidMerkleBlock)
	}
	flag := (w.mb.Flags[w.bit/8]>>(w.bit%8))&1 == 1
	w.bit++

	var node [32]byte
	if height == 0 || !flag {
		if w.hash >= len(w.mb.Hashes) {
			return [32]byte{}, fmt.Errorf("%w: ran out of hashes", ErrInvalidMerkleBlock)
		}
		node = w.mb.Hashes[w.hash]
		w.hash++
		if height == 0 && flag {
			w.matches = append(w.matches, pos)
		}
	} else {
		left, err := w.walk(height-1, pos*2)
		if err != nil {
			return [32]byte{}, err
		}
		right := left
		if pos*2+1 < treeWidth(w.mb.Total, height-1) {
			if right, err = w.walk(height-1, pos*2+1); err != nil {
				return [32]byte{}, err
			}
			// CVE-2012-2459: identical children are only legal as padding.
			if right == left {
				return [32]byte{}, fmt.Errorf("%w: duplicate subtree", ErrInvalidMerkleBlock)
			}
		}
		node = MerkleParent(left, right)
	}
	w.nodes[nodeKey{height, pos}] = node
	return node, nil
}
