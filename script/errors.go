package script

import "errors"

var (
	// ErrMalformedScript indicates a script byte stream that cannot be parsed.
	ErrMalformedScript = errors.New("script: malformed script")

	// ErrEvalFalse indicates a script that ran to completion with an empty
	// stack or a false top element.
	ErrEvalFalse = errors.New("script: evaluated to false")

	// ErrStackUnderflow indicates an operation needed more stack items than present.
	ErrStackUnderflow = errors.New("script: stack underflow")

	// ErrStackOverflow indicates the combined stacks grew past MaxStackSize.
	ErrStackOverflow = errors.New("script: stack overflow")

	// ErrVerify indicates a failed OP_VERIFY or *VERIFY opcode.
	ErrVerify = errors.New("script: verify failed")

	// ErrUnbalancedConditional indicates an OP_IF without OP_ENDIF, or a
	// stray OP_ELSE / OP_ENDIF.
	ErrUnbalancedConditional = errors.New("script: unbalanced conditional")

	// ErrOpReturn indicates execution reached OP_RETURN.
	ErrOpReturn = errors.New("script: OP_RETURN executed")

	// ErrUnknownOpcode indicates a byte with no defined operation.
	ErrUnknownOpcode = errors.New("script: unknown opcode")

	// ErrDisabledOpcode indicates one of the disabled splice, bitwise or arithmetic opcodes.
	ErrDisabledOpcode = errors.New("script: disabled opcode")

	// ErrReservedOpcode indicates execution of a reserved opcode.
	ErrReservedOpcode = errors.New("script: reserved opcode")

	// ErrNumberTooBig indicates a numeric operand longer than allowed.
	ErrNumberTooBig = errors.New("script: numeric operand too long")

	// ErrPushSize indicates a data push larger than MaxElementSize.
	ErrPushSize = errors.New("script: push exceeds maximum element size")

	// ErrInvalidIndex indicates an out-of-range OP_PICK / OP_ROLL index or multisig count.
	ErrInvalidIndex = errors.New("script: invalid stack index")

	// ErrInvalidMultisig indicates a multisig template whose threshold or
	// key count falls outside 1..16, or a threshold above the key count.
	ErrInvalidMultisig = errors.New("script: invalid multisig parameters")

	// ErrLocktime indicates a failed OP_CHECKLOCKTIMEVERIFY.
	ErrLocktime = errors.New("script: locktime requirement not satisfied")

	// ErrSequence indicates a failed OP_CHECKSEQUENCEVERIFY.
	ErrSequence = errors.New("script: sequence requirement not satisfied")

	// ErrRedeemHash indicates a P2SH redeem script whose hash160 does not
	// match the output.
	ErrRedeemHash = errors.New("script: redeem script hash mismatch")

	// ErrWitnessProgram indicates a missing witness or a witness script
	// whose sha256 does not match the program.
	ErrWitnessProgram = errors.New("script: witness program mismatch")
)
