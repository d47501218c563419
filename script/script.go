// Package script implements Bitcoin Script: the command model, its byte
// encoding, the standard output templates and the stack interpreter.
package script

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/bitfsorg/libbtc-go/wire"
)

// MaxElementSize is the largest data push the interpreter accepts.
const MaxElementSize = 520

// Command is one script element: an opcode, or a data push when Data is
// non-nil. For pushes Op records the push opcode the bytes were encoded
// with (a length byte, or OP_PUSHDATA1/2/4), so parsed scripts re-serialize
// exactly.
type Command struct {
	Op   Opcode
	Data []byte
}

// Op returns an opcode command.
func Op(op Opcode) Command { return Command{Op: op} }

// Push returns a data command using the shortest push encoding. An empty
// push is OP_0.
func Push(data []byte) Command {
	if len(data) == 0 {
		return Op(Op0)
	}
	d := make([]byte, len(data))
	copy(d, data)
	return Command{Op: pushOpcode(len(d)), Data: d}
}

func pushOpcode(n int) Opcode {
	switch {
	case n <= 0x4b:
		return Opcode(n)
	case n <= 0xff:
		return OpPUSHDATA1
	case n <= 0xffff:
		return OpPUSHDATA2
	default:
		return OpPUSHDATA4
	}
}

// IsData reports whether c pushes data.
func (c Command) IsData() bool { return c.Data != nil }

// Equal reports whether c and o are the same command.
func (c Command) Equal(o Command) bool {
	if c.IsData() != o.IsData() {
		return false
	}
	if c.IsData() {
		return bytes.Equal(c.Data, o.Data)
	}
	return c.Op == o.Op
}

func (c Command) String() string {
	if c.IsData() {
		return hex.EncodeToString(c.Data)
	}
	return c.Op.String()
}

// Script is an ordered list of commands.
type Script struct {
	cmds []Command
}

// New returns a script holding cmds.
func New(cmds ...Command) *Script {
	return &Script{cmds: append([]Command(nil), cmds...)}
}

// Commands returns a copy of the command list.
func (s *Script) Commands() []Command {
	return append([]Command(nil), s.cmds...)
}

// Len returns the number of commands.
func (s *Script) Len() int { return len(s.cmds) }

// Concat returns a new script running s followed by other.
func (s *Script) Concat(other *Script) *Script {
	cmds := make([]Command, 0, len(s.cmds)+len(other.cmds))
	cmds = append(cmds, s.cmds...)
	cmds = append(cmds, other.cmds...)
	return &Script{cmds: cmds}
}

// Equal reports whether two scripts have the same commands.
func (s *Script) Equal(o *Script) bool {
	if len(s.cmds) != len(o.cmds) {
		return false
	}
	for i := range s.cmds {
		if !s.cmds[i].Equal(o.cmds[i]) {
			return false
		}
	}
	return true
}

// Parse reads a varint length-prefixed script.
func Parse(r io.Reader) (*Script, error) {
	length, err := wire.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("%w: length: %w", ErrMalformedScript, err)
	}
	raw, err := wire.ReadBytes(r, length)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrMalformedScript, err)
	}
	return ParseRaw(raw)
}

// ParseRaw parses script bytes that carry no length prefix, such as a P2SH
// redeem script or a witness script.
func ParseRaw(raw []byte) (*Script, error) {
	var cmds []Command
	for i := 0; i < len(raw); {
		op := Opcode(raw[i])
		i++

		var n int
		switch {
		case op >= 0x01 && op <= 0x4b:
			n = int(op)
		case op == OpPUSHDATA1:
			if i+1 > len(raw) {
				return nil, fmt.Errorf("%w: truncated OP_PUSHDATA1 length at %d", ErrMalformedScript, i)
			}
			n = int(raw[i])
			i++
		case op == OpPUSHDATA2:
			if i+2 > len(raw) {
				return nil, fmt.Errorf("%w: truncated OP_PUSHDATA2 length at %d", ErrMalformedScript, i)
			}
			n = int(binary.LittleEndian.Uint16(raw[i:]))
			i += 2
		case op == OpPUSHDATA4:
			if i+4 > len(raw) {
				return nil, fmt.Errorf("%w: truncated OP_PUSHDATA4 length at %d", ErrMalformedScript, i)
			}
			n64 := uint64(binary.LittleEndian.Uint32(raw[i:]))
			i += 4
			if n64 > uint64(len(raw)-i) {
				return nil, fmt.Errorf("%w: push of %d bytes overruns script", ErrMalformedScript, n64)
			}
			n = int(n64)
		default:
			cmds = append(cmds, Command{Op: op})
			continue
		}

		if n > len(raw)-i {
			return nil, fmt.Errorf("%w: push of %d bytes overruns script at %d", ErrMalformedScript, n, i)
		}
		data := make([]byte, n)
		copy(data, raw[i:i+n])
		cmds = append(cmds, Command{Op: op, Data: data})
		i += n
	}
	return &Script{cmds: cmds}, nil
}

// Raw returns the script bytes without a length prefix.
func (s *Script) Raw() []byte {
	buf := make([]byte, 0, len(s.cmds))
	for _, c := range s.cmds {
		if !c.IsData() {
			buf = append(buf, byte(c.Op))
			continue
		}

		op := c.Op
		// A push opcode that cannot hold the data falls back to the shortest one.
		if !pushFits(op, len(c.Data)) {
			op = pushOpcode(len(c.Data))
		}
		switch op {
		case OpPUSHDATA1:
			buf = append(buf, byte(op), byte(len(c.Data)))
		case OpPUSHDATA2:
			buf = append(buf, byte(op))
			buf = binary.LittleEndian.AppendUint16(buf, uint16(len(c.Data)))
		case OpPUSHDATA4:
			buf = append(buf, byte(op))
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.Data)))
		default:
			buf = append(buf, byte(op))
		}
		buf = append(buf, c.Data...)
	}
	return buf
}

func pushFits(op Opcode, n int) bool {
	switch {
	case op >= 0x01 && op <= 0x4b:
		return int(op) == n
	case op == OpPUSHDATA1:
		return n <= 0xff
	case op == OpPUSHDATA2:
		return n <= 0xffff
	case op == OpPUSHDATA4:
		return true
	}
	// Op0 with an empty push.
	return op == Op0 && n == 0
}

// Serialize returns the varint length-prefixed script bytes.
func (s *Script) Serialize() []byte {
	raw := s.Raw()
	return append(wire.EncodeVarInt(uint64(len(raw))), raw...)
}

// Validate checks that every data push fits in MaxElementSize.
func (s *Script) Validate() error {
	for i, c := range s.cmds {
		if c.IsData() && len(c.Data) > MaxElementSize {
			return fmt.Errorf("%w: command %d pushes %d bytes", ErrPushSize, i, len(c.Data))
		}
	}
	return nil
}

// String returns a space separated disassembly: opcode names and hex data.
func (s *Script) String() string {
	parts := make([]string, len(s.cmds))
	for i, c := range s.cmds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
