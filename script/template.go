package script

import "fmt"

// P2PKH returns OP_DUP OP_HASH160 <h160> OP_EQUALVERIFY OP_CHECKSIG.
func P2PKH(h160 []byte) *Script {
	return New(Op(OpDUP), Op(OpHASH160), Push(h160), Op(OpEQUALVERIFY), Op(OpCHECKSIG))
}

// P2SH returns OP_HASH160 <h160> OP_EQUAL.
func P2SH(h160 []byte) *Script {
	return New(Op(OpHASH160), Push(h160), Op(OpEQUAL))
}

// P2WPKH returns the version 0 witness program OP_0 <h160>.
func P2WPKH(h160 []byte) *Script {
	return New(Op(Op0), Push(h160))
}

// P2WSH returns the version 0 witness program OP_0 <sha256>.
func P2WSH(h256 []byte) *Script {
	return New(Op(Op0), Push(h256))
}

// Multisig returns OP_m <pubkey>... OP_n OP_CHECKMULTISIG. It fails unless
// 1 <= m <= n <= 16, where n is the number of keys.
func Multisig(m int, pubKeys [][]byte) (*Script, error) {
	n := len(pubKeys)
	if m < 1 || n > 16 || m > n {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidMultisig, m, n)
	}
	cmds := make([]Command, 0, n+3)
	cmds = append(cmds, Op(Op1+Opcode(m-1)))
	for _, k := range pubKeys {
		cmds = append(cmds, Push(k))
	}
	cmds = append(cmds, Op(Op1+Opcode(n-1)), Op(OpCHECKMULTISIG))
	return New(cmds...), nil
}

// IsP2PKH reports whether s is a pay-to-pubkey-hash output script.
func (s *Script) IsP2PKH() bool {
	c := s.cmds
	return len(c) == 5 &&
		c[0].is(OpDUP) && c[1].is(OpHASH160) && c[2].isData(20) &&
		c[3].is(OpEQUALVERIFY) && c[4].is(OpCHECKSIG)
}

// IsP2SH reports whether s is a pay-to-script-hash output script.
func (s *Script) IsP2SH() bool {
	c := s.cmds
	return len(c) == 3 && c[0].is(OpHASH160) && c[1].isData(20) && c[2].is(OpEQUAL)
}

// IsP2WPKH reports whether s is a version 0 pay-to-witness-pubkey-hash program.
func (s *Script) IsP2WPKH() bool {
	c := s.cmds
	return len(c) == 2 && c[0].is(Op0) && c[1].isData(20)
}

// IsP2WSH reports whether s is a version 0 pay-to-witness-script-hash program.
func (s *Script) IsP2WSH() bool {
	c := s.cmds
	return len(c) == 2 && c[0].is(Op0) && c[1].isData(32)
}

// Hash returns the 20 or 32 byte hash embedded in a P2PKH, P2SH, P2WPKH
// or P2WSH script, or nil for anything else.
func (s *Script) Hash() []byte {
	switch {
	case s.IsP2PKH():
		return append([]byte(nil), s.cmds[2].Data...)
	case s.IsP2SH(), s.IsP2WPKH(), s.IsP2WSH():
		return append([]byte(nil), s.cmds[1].Data...)
	}
	return nil
}

func (c Command) is(op Opcode) bool { return !c.IsData() && c.Op == op }

func (c Command) isData(n int) bool { return c.IsData() && len(c.Data) == n }
