package block

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/bitfsorg/libbtc-go/wire"
)

// Merkle hashes are in wire (internal) byte order, the reverse of the
// display order used for transaction ids and Header.MerkleRoot.

// MerkleParent returns the double SHA-256 of left followed by right.
func MerkleParent(left, right [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], left[:])
	copy(buf[32:], right[:])
	return [32]byte(chainhash.DoubleHashH(buf[:]))
}

// MerkleParentLevel pairs up one tree level. An odd level duplicates its
// last hash. A single hash is already a root and cannot be reduced.
func MerkleParentLevel(level [][32]byte) ([][32]byte, error) {
	if len(level) < 2 {
		return nil, fmt.Errorf("%w: %d hashes", ErrMerkleLevel, len(level))
	}
	parents := make([][32]byte, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		right := level[len(level)-1]
		if i+1 < len(level) {
			right = level[i+1]
		}
		parents = append(parents, MerkleParent(level[i], right))
	}
	return parents, nil
}

// MerkleRoot reduces hashes level by level to the root.
func MerkleRoot(hashes [][32]byte) ([32]byte, error) {
	if len(hashes) == 0 {
		return [32]byte{}, fmt.Errorf("%w: no hashes", ErrMerkleLevel)
	}
	level := hashes
	for len(level) > 1 {
		var err error
		if level, err = MerkleParentLevel(level); err != nil {
			return [32]byte{}, err
		}
	}
	return level[0], nil
}

// MerkleProof is the branch linking one transaction hash to a merkle root.
type MerkleProof struct {
	TxHash [32]byte
	// Index is the position of TxHash among the leaves. Bit i selects
	// whether the running hash is the left (0) or right (1) child at
	// depth i.
	Index uint32
	// Nodes are the sibling hashes, bottom-up.
	Nodes [][32]byte
}

// BuildMerkleProof returns the proof for the leaf at index.
func BuildMerkleProof(hashes [][32]byte, index uint32) (*MerkleProof, error) {
	if int(index) >= len(hashes) {
		return nil, fmt.Errorf("%w: leaf %d of %d", ErrMerkleLevel, index, len(hashes))
	}
	proof := &MerkleProof{TxHash: hashes[index], Index: index}
	level, pos := hashes, int(index)
	for len(level) > 1 {
		sibling := pos ^ 1
		if sibling >= len(level) {
			sibling = pos
		}
		proof.Nodes = append(proof.Nodes, level[sibling])

		var err error
		if level, err = MerkleParentLevel(level); err != nil {
			return nil, err
		}
		pos /= 2
	}
	return proof, nil
}

// Root recomputes the merkle root from the proof branch.
func (p *MerkleProof) Root() [32]byte {
	hash := p.TxHash
	for i, node := range p.Nodes {
		if (p.Index>>uint(i))&1 == 0 {
			hash = MerkleParent(hash, node)
		} else {
			hash = MerkleParent(node, hash)
		}
	}
	return hash
}

// VerifyMerkleProof checks proof against a root in wire order.
func VerifyMerkleProof(proof *MerkleProof, root [32]byte) error {
	if proof == nil {
		return fmt.Errorf("%w: proof", ErrNilParam)
	}
	if proof.Root() != root {
		return ErrMerkleProofInvalid
	}
	return nil
}

// VerifyTx checks that the transaction with display-order id txID is
// committed to by the header through proof.
func (h *Header) VerifyTx(txID [32]byte, proof *MerkleProof) error {
	if proof == nil {
		return fmt.Errorf("%w: proof", ErrNilParam)
	}
	if [32]byte(wire.Reverse(txID[:])) != proof.TxHash {
		return fmt.Errorf("%w: proof is for another transaction", ErrMerkleProofInvalid)
	}
	return VerifyMerkleProof(proof, [32]byte(wire.Reverse(h.MerkleRoot[:])))
}
