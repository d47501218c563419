package script

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/bitfsorg/libbtc-go/ecc"
	"github.com/bitfsorg/libbtc-go/wire"
)

const (
	// MaxStackSize bounds the combined main and alt stack depth.
	MaxStackSize = 1000

	// maxNumSize is the operand length limit for arithmetic opcodes.
	maxNumSize = 4

	// lockNumSize is the operand length limit for locktime opcodes.
	lockNumSize = 5

	maxPubKeysPerMultisig = 20

	// LocktimeThreshold separates block-height locktimes from unix times.
	LocktimeThreshold = 500_000_000

	sequenceFinal       = 0xffffffff
	sequenceDisableFlag = 1 << 31
	sequenceTypeFlag    = 1 << 22
	sequenceMask        = 0x0000ffff
)

// TxContext carries the fields of the spending transaction that the
// locktime opcodes inspect.
type TxContext struct {
	Version  uint32
	Locktime uint32
	Sequence uint32
}

// Evaluate runs s with signature hash z and the input's witness items and
// reports whether it succeeded. The reason for a failure is logged at
// debug level; use Execute to get it as an error.
func (s *Script) Evaluate(z *big.Int, witness [][]byte, tc TxContext) bool {
	if err := s.Execute(z, witness, tc); err != nil {
		log.Debugf("Script evaluation failed: %v", err)
		return false
	}
	return true
}

// Execute is Evaluate returning the cause of failure.
func (s *Script) Execute(z *big.Int, witness [][]byte, tc TxContext) error {
	e := &engine{
		cmds:    s.Commands(),
		z:       z,
		witness: witness,
		tx:      tc,
	}
	return e.run()
}

type engine struct {
	stack   [][]byte
	alt     [][]byte
	cmds    []Command
	z       *big.Int
	witness [][]byte
	tx      TxContext
}

func (e *engine) run() error {
	for len(e.cmds) > 0 {
		cmd := e.cmds[0]
		e.cmds = e.cmds[1:]

		if cmd.IsData() {
			if err := e.pushData(cmd.Data); err != nil {
				return err
			}
		} else if err := e.step(cmd.Op); err != nil {
			return fmt.Errorf("%s: %w", cmd.Op, err)
		}

		if len(e.stack)+len(e.alt) > MaxStackSize {
			return ErrStackOverflow
		}
	}

	if len(e.stack) == 0 || !isTrue(e.stack[len(e.stack)-1]) {
		return ErrEvalFalse
	}
	return nil
}

// pushData pushes an element and then applies the pay-to-script-hash and
// witness program rewrites, which are recognised by the shape of the
// remaining commands and the stack right after a push.
func (e *engine) pushData(data []byte) error {
	if len(data) > MaxElementSize {
		return fmt.Errorf("%w: %d bytes", ErrPushSize, len(data))
	}
	e.push(data)

	if len(e.cmds) == 3 && e.cmds[0].is(OpHASH160) && e.cmds[1].isData(20) && e.cmds[2].is(OpEQUAL) {
		return e.redeemP2SH()
	}

	if len(e.stack) == 2 && len(e.stack[0]) == 0 {
		switch len(e.stack[1]) {
		case 20:
			return e.spendP2WPKH()
		case 32:
			return e.spendP2WSH()
		}
	}
	return nil
}

// redeemP2SH checks the just pushed redeem script against the hash in the
// output and appends its commands.
func (e *engine) redeemP2SH() error {
	want := e.cmds[1].Data
	e.cmds = e.cmds[:0]

	redeem := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if !bytes.Equal(wire.Hash160(redeem), want) {
		return ErrRedeemHash
	}

	rs, err := ParseRaw(redeem)
	if err != nil {
		return fmt.Errorf("redeem script: %w", err)
	}
	e.cmds = append(e.cmds, rs.cmds...)
	return nil
}

func (e *engine) spendP2WPKH() error {
	h160 := e.stack[1]
	e.stack = e.stack[:0]

	for _, item := range e.witness {
		e.cmds = append(e.cmds, Push(item))
	}
	e.cmds = append(e.cmds, P2PKH(h160).cmds...)
	return nil
}

func (e *engine) spendP2WSH() error {
	h256 := e.stack[1]
	e.stack = e.stack[:0]

	if len(e.witness) == 0 {
		return fmt.Errorf("%w: empty witness", ErrWitnessProgram)
	}
	last := len(e.witness) - 1
	for _, item := range e.witness[:last] {
		e.cmds = append(e.cmds, Push(item))
	}

	ws := e.witness[last]
	if !bytes.Equal(wire.Sha256(ws), h256) {
		return fmt.Errorf("%w: witness script hash", ErrWitnessProgram)
	}
	parsed, err := ParseRaw(ws)
	if err != nil {
		return fmt.Errorf("witness script: %w", err)
	}
	e.cmds = append(e.cmds, parsed.cmds...)
	return nil
}

// step executes a single opcode.
func (e *engine) step(op Opcode) error {
	switch {
	case op == Op0:
		e.push([]byte{})
		return nil
	case op == Op1NEGATE:
		e.pushNum(-1)
		return nil
	case isSmallInt(op):
		e.pushNum(int64(op-Op1) + 1)
		return nil
	case isDisabled(op):
		return ErrDisabledOpcode
	}

	switch op {
	case OpNOP, OpNOP1, OpNOP4, OpNOP5, OpNOP6, OpNOP7, OpNOP8, OpNOP9, OpNOP10, OpCODESEPARATOR:
		return nil

	case OpRESERVED, OpVER, OpVERIF, OpVERNOTIF, OpRESERVED1, OpRESERVED2:
		return ErrReservedOpcode

	// Flow control.
	case OpIF:
		return e.opIf(false)
	case OpNOTIF:
		return e.opIf(true)
	case OpELSE, OpENDIF:
		return ErrUnbalancedConditional
	case OpVERIFY:
		return e.opVerify()
	case OpRETURN:
		return ErrOpReturn

	// Stack.
	case OpTOALTSTACK:
		v, err := e.pop()
		if err != nil {
			return err
		}
		e.alt = append(e.alt, v)
		return nil
	case OpFROMALTSTACK:
		if len(e.alt) == 0 {
			return ErrStackUnderflow
		}
		v := e.alt[len(e.alt)-1]
		e.alt = e.alt[:len(e.alt)-1]
		e.push(v)
		return nil
	case Op2DROP:
		return e.drop(2)
	case Op2DUP:
		return e.dup(2)
	case Op3DUP:
		return e.dup(3)
	case Op2OVER:
		if err := e.need(4); err != nil {
			return err
		}
		e.push(e.peek(3))
		e.push(e.peek(3))
		return nil
	case Op2ROT:
		if err := e.need(6); err != nil {
			return err
		}
		a, b := e.remove(5), e.remove(4)
		e.push(a)
		e.push(b)
		return nil
	case Op2SWAP:
		if err := e.need(4); err != nil {
			return err
		}
		a, b := e.remove(3), e.remove(2)
		e.push(a)
		e.push(b)
		return nil
	case OpIFDUP:
		if err := e.need(1); err != nil {
			return err
		}
		if isTrue(e.peek(0)) {
			e.push(e.peek(0))
		}
		return nil
	case OpDEPTH:
		e.pushNum(int64(len(e.stack)))
		return nil
	case OpDROP:
		return e.drop(1)
	case OpDUP:
		return e.dup(1)
	case OpNIP:
		if err := e.need(2); err != nil {
			return err
		}
		e.remove(1)
		return nil
	case OpOVER:
		if err := e.need(2); err != nil {
			return err
		}
		e.push(e.peek(1))
		return nil
	case OpPICK, OpROLL:
		n, err := e.popNum(maxNumSize)
		if err != nil {
			return err
		}
		if n < 0 || n >= int64(len(e.stack)) {
			return fmt.Errorf("%w: %d with depth %d", ErrInvalidIndex, n, len(e.stack))
		}
		if op == OpPICK {
			e.push(e.peek(int(n)))
		} else {
			e.push(e.remove(int(n)))
		}
		return nil
	case OpROT:
		if err := e.need(3); err != nil {
			return err
		}
		e.push(e.remove(2))
		return nil
	case OpSWAP:
		if err := e.need(2); err != nil {
			return err
		}
		e.push(e.remove(1))
		return nil
	case OpTUCK:
		if err := e.need(2); err != nil {
			return err
		}
		top := e.peek(0)
		at := len(e.stack) - 2
		e.stack = append(e.stack[:at], append([][]byte{top}, e.stack[at:]...)...)
		return nil
	case OpSIZE:
		if err := e.need(1); err != nil {
			return err
		}
		e.pushNum(int64(len(e.peek(0))))
		return nil

	// Bitwise logic.
	case OpEQUAL, OpEQUALVERIFY:
		if err := e.need(2); err != nil {
			return err
		}
		a, _ := e.pop()
		b, _ := e.pop()
		e.pushBool(bytes.Equal(a, b))
		if op == OpEQUALVERIFY {
			return e.opVerify()
		}
		return nil

	// Arithmetic.
	case Op1ADD, Op1SUB, OpNEGATE, OpABS, OpNOT, Op0NOTEQUAL:
		return e.unaryNum(op)
	case OpADD, OpSUB, OpBOOLAND, OpBOOLOR, OpNUMEQUAL, OpNUMEQUALVERIFY, OpNUMNOTEQUAL,
		OpLESSTHAN, OpGREATERTHAN, OpLESSTHANOREQUAL, OpGREATERTHANOREQUAL, OpMIN, OpMAX:
		return e.binaryNum(op)
	case OpWITHIN:
		if err := e.need(3); err != nil {
			return err
		}
		hi, err := e.popNum(maxNumSize)
		if err != nil {
			return err
		}
		lo, err := e.popNum(maxNumSize)
		if err != nil {
			return err
		}
		x, err := e.popNum(maxNumSize)
		if err != nil {
			return err
		}
		e.pushBool(lo <= x && x < hi)
		return nil

	// Crypto.
	case OpRIPEMD160:
		return e.hashTop(wire.Ripemd160)
	case OpSHA1:
		return e.hashTop(wire.Sha1)
	case OpSHA256:
		return e.hashTop(wire.Sha256)
	case OpHASH160:
		return e.hashTop(wire.Hash160)
	case OpHASH256:
		return e.hashTop(wire.Hash256)
	case OpCHECKSIG, OpCHECKSIGVERIFY:
		if err := e.opCheckSig(); err != nil {
			return err
		}
		if op == OpCHECKSIGVERIFY {
			return e.opVerify()
		}
		return nil
	case OpCHECKMULTISIG, OpCHECKMULTISIGVERIFY:
		if err := e.opCheckMultisig(); err != nil {
			return err
		}
		if op == OpCHECKMULTISIGVERIFY {
			return e.opVerify()
		}
		return nil

	// Locktime.
	case OpCHECKLOCKTIMEVERIFY:
		return e.opCheckLocktime()
	case OpCHECKSEQUENCEVERIFY:
		return e.opCheckSequence()

	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownOpcode, byte(op))
	}
}

// opIf partitions the remaining commands up to the matching OP_ENDIF into
// the two branches, then splices the taken branch in front of what follows.
func (e *engine) opIf(negate bool) error {
	if err := e.need(1); err != nil {
		return err
	}

	var taken, skipped []Command
	current := &taken
	depth := 1
	end := -1
scan:
	for i, c := range e.cmds {
		switch {
		case c.is(OpIF) || c.is(OpNOTIF):
			depth++
			*current = append(*current, c)
		case c.is(OpELSE) && depth == 1:
			current = &skipped
		case c.is(OpENDIF):
			if depth == 1 {
				end = i
				break scan
			}
			depth--
			*current = append(*current, c)
		default:
			*current = append(*current, c)
		}
	}
	if end < 0 {
		return fmt.Errorf("%w: missing OP_ENDIF", ErrUnbalancedConditional)
	}

	cond, _ := e.pop()
	if isTrue(cond) == negate {
		taken = skipped
	}

	rest := e.cmds[end+1:]
	next := make([]Command, 0, len(taken)+len(rest))
	next = append(next, taken...)
	e.cmds = append(next, rest...)
	return nil
}

func (e *engine) opVerify() error {
	v, err := e.pop()
	if err != nil {
		return err
	}
	if !isTrue(v) {
		return ErrVerify
	}
	return nil
}

func (e *engine) unaryNum(op Opcode) error {
	n, err := e.popNum(maxNumSize)
	if err != nil {
		return err
	}
	switch op {
	case Op1ADD:
		n++
	case Op1SUB:
		n--
	case OpNEGATE:
		n = -n
	case OpABS:
		if n < 0 {
			n = -n
		}
	case OpNOT:
		n = boolNum(n == 0)
	case Op0NOTEQUAL:
		n = boolNum(n != 0)
	}
	e.pushNum(n)
	return nil
}

func (e *engine) binaryNum(op Opcode) error {
	if err := e.need(2); err != nil {
		return err
	}
	b, err := e.popNum(maxNumSize)
	if err != nil {
		return err
	}
	a, err := e.popNum(maxNumSize)
	if err != nil {
		return err
	}

	var r int64
	switch op {
	case OpADD:
		r = a + b
	case OpSUB:
		r = a - b
	case OpBOOLAND:
		r = boolNum(a != 0 && b != 0)
	case OpBOOLOR:
		r = boolNum(a != 0 || b != 0)
	case OpNUMEQUAL, OpNUMEQUALVERIFY:
		r = boolNum(a == b)
	case OpNUMNOTEQUAL:
		r = boolNum(a != b)
	case OpLESSTHAN:
		r = boolNum(a < b)
	case OpGREATERTHAN:
		r = boolNum(a > b)
	case OpLESSTHANOREQUAL:
		r = boolNum(a <= b)
	case OpGREATERTHANOREQUAL:
		r = boolNum(a >= b)
	case OpMIN:
		r = min(a, b)
	case OpMAX:
		r = max(a, b)
	}
	e.pushNum(r)

	if op == OpNUMEQUALVERIFY {
		return e.opVerify()
	}
	return nil
}

func (e *engine) hashTop(fn func([]byte) []byte) error {
	v, err := e.pop()
	if err != nil {
		return err
	}
	e.push(fn(v))
	return nil
}

// opCheckSig pops a public key and a signature and pushes whether the
// signature is valid for the engine's signature hash. Undecodable keys or
// signatures push false rather than aborting.
func (e *engine) opCheckSig() error {
	if err := e.need(2); err != nil {
		return err
	}
	pubKey, _ := e.pop()
	sig, _ := e.pop()
	e.pushBool(e.verifySig(sig, pubKey))
	return nil
}

func (e *engine) verifySig(sig, pubKey []byte) bool {
	if len(sig) == 0 || e.z == nil {
		return false
	}
	point, err := ecc.ParseSEC(pubKey)
	if err != nil {
		log.Tracef("Bad public key %x: %v", pubKey, err)
		return false
	}
	// The trailing byte is the sighash type.
	parsed, err := ecc.ParseDER(sig[:len(sig)-1])
	if err != nil {
		log.Tracef("Bad signature %x: %v", sig, err)
		return false
	}
	return point.Verify(e.z, parsed)
}

// opCheckMultisig implements m-of-n verification. Signatures must appear in
// the same order as the keys they match. One extra element below the
// signatures is consumed, as in the reference client.
func (e *engine) opCheckMultisig() error {
	n, err := e.popNum(maxNumSize)
	if err != nil {
		return err
	}
	if n < 0 || n > maxPubKeysPerMultisig {
		return fmt.Errorf("%w: %d public keys", ErrInvalidIndex, n)
	}
	if err := e.need(int(n) + 1); err != nil {
		return err
	}
	pubKeys := make([][]byte, n)
	for i := range pubKeys {
		pubKeys[i], _ = e.pop()
	}

	m, err := e.popNum(maxNumSize)
	if err != nil {
		return err
	}
	if m < 0 || m > n {
		return fmt.Errorf("%w: %d signatures for %d keys", ErrInvalidIndex, m, n)
	}
	// m signatures plus the dummy element.
	if err := e.need(int(m) + 1); err != nil {
		return err
	}
	sigs := make([][]byte, m)
	for i := range sigs {
		sigs[i], _ = e.pop()
	}
	_, _ = e.pop()

	// Both lists were popped top first, so walk them from the end.
	k := len(pubKeys) - 1
	ok := true
	for i := len(sigs) - 1; i >= 0 && ok; i-- {
		for ; k >= 0; k-- {
			if e.verifySig(sigs[i], pubKeys[k]) {
				break
			}
		}
		if k < 0 {
			ok = false
		}
		k--
	}
	e.pushBool(ok)
	return nil
}

func (e *engine) opCheckLocktime() error {
	if e.tx.Sequence == sequenceFinal {
		return fmt.Errorf("%w: input sequence is final", ErrLocktime)
	}
	lock, err := e.peekNum(lockNumSize)
	if err != nil {
		return err
	}
	if lock < 0 {
		return fmt.Errorf("%w: negative locktime", ErrLocktime)
	}
	txLock := int64(e.tx.Locktime)
	if (lock < LocktimeThreshold) != (txLock < LocktimeThreshold) {
		return fmt.Errorf("%w: height and time locktimes mixed", ErrLocktime)
	}
	if lock > txLock {
		return fmt.Errorf("%w: %d > %d", ErrLocktime, lock, txLock)
	}
	return nil
}

func (e *engine) opCheckSequence() error {
	seq, err := e.peekNum(lockNumSize)
	if err != nil {
		return err
	}
	if seq < 0 {
		return fmt.Errorf("%w: negative sequence", ErrSequence)
	}
	// With the disable flag set the opcode behaves as a NOP.
	if seq&sequenceDisableFlag != 0 {
		return nil
	}
	if e.tx.Version < 2 {
		return fmt.Errorf("%w: tx version %d", ErrSequence, e.tx.Version)
	}
	txSeq := int64(e.tx.Sequence)
	if txSeq&sequenceDisableFlag != 0 {
		return fmt.Errorf("%w: input sequence disables relative locks", ErrSequence)
	}
	if seq&sequenceTypeFlag != txSeq&sequenceTypeFlag {
		return fmt.Errorf("%w: height and time sequences mixed", ErrSequence)
	}
	if seq&sequenceMask > txSeq&sequenceMask {
		return fmt.Errorf("%w: %d > %d", ErrSequence, seq&sequenceMask, txSeq&sequenceMask)
	}
	return nil
}

// --- Stack helpers ---

func (e *engine) push(v []byte) { e.stack = append(e.stack, v) }

func (e *engine) pushNum(n int64) { e.push(EncodeNum(n)) }

func (e *engine) pushBool(b bool) { e.pushNum(boolNum(b)) }

func (e *engine) need(n int) error {
	if len(e.stack) < n {
		return fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, n, len(e.stack))
	}
	return nil
}

func (e *engine) pop() ([]byte, error) {
	if err := e.need(1); err != nil {
		return nil, err
	}
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v, nil
}

// peek returns the element i positions below the top.
func (e *engine) peek(i int) []byte { return e.stack[len(e.stack)-1-i] }

// remove takes out the element i positions below the top.
func (e *engine) remove(i int) []byte {
	at := len(e.stack) - 1 - i
	v := e.stack[at]
	e.stack = append(e.stack[:at], e.stack[at+1:]...)
	return v
}

func (e *engine) drop(n int) error {
	if err := e.need(n); err != nil {
		return err
	}
	e.stack = e.stack[:len(e.stack)-n]
	return nil
}

func (e *engine) dup(n int) error {
	if err := e.need(n); err != nil {
		return err
	}
	e.stack = append(e.stack, e.stack[len(e.stack)-n:]...)
	return nil
}

func (e *engine) popNum(maxLen int) (int64, error) {
	n, err := e.peekNum(maxLen)
	if err != nil {
		return 0, err
	}
	e.stack = e.stack[:len(e.stack)-1]
	return n, nil
}

func (e *engine) peekNum(maxLen int) (int64, error) {
	if err := e.need(1); err != nil {
		return 0, err
	}
	v := e.peek(0)
	if len(v) > maxLen {
		return 0, fmt.Errorf("%w: %d bytes", ErrNumberTooBig, len(v))
	}
	return DecodeNum(v), nil
}

func boolNum(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
