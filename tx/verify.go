package tx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/bitfsorg/libbtc-go/script"
)

// Verifier checks the inputs of one transaction against their resolved
// previous outputs. The BIP143 midstate is computed once at construction
// and shared by every segwit input.
type Verifier struct {
	tx       *Tx
	resolver OutputResolver
	ms       *Midstate
}

// NewVerifier prepares tx for verification with outputs looked up through
// resolver.
func NewVerifier(tx *Tx, resolver OutputResolver) *Verifier {
	return &Verifier{tx: tx, resolver: resolver, ms: tx.Midstate()}
}

// Midstate returns the prepared BIP143 digests.
func (v *Verifier) Midstate() *Midstate { return v.ms }

func (v *Verifier) prevOut(ctx context.Context, i int) (*TxOut, error) {
	if v.resolver == nil {
		return nil, fmt.Errorf("%w: no resolver", ErrResolve)
	}
	in := v.tx.Inputs[i]
	out, err := v.resolver.ResolveOutput(ctx, in.PrevTxID, in.PrevIndex)
	if err != nil {
		if !errors.Is(err, ErrResolve) {
			err = fmt.Errorf("%w: %w", ErrResolve, err)
		}
		return nil, fmt.Errorf("input %d: %w", i, err)
	}
	if out == nil || out.ScriptPubKey == nil {
		return nil, fmt.Errorf("%w: input %d: empty output %s", ErrResolve, i, in.OutPoint())
	}
	return out, nil
}

// Fee returns the sum of the spent amounts minus the sum of the outputs.
// Sums that overflow uint64, or a difference outside int64, yield
// ErrAmountOverflow.
func (v *Verifier) Fee(ctx context.Context) (int64, error) {
	var in, out uint64
	for i := range v.tx.Inputs {
		prev, err := v.prevOut(ctx, i)
		if err != nil {
			return 0, err
		}
		sum, carry := bits.Add64(in, prev.Amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: inputs", ErrAmountOverflow)
		}
		in = sum
	}
	for _, o := range v.tx.Outputs {
		sum, carry := bits.Add64(out, o.Amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("%w: outputs", ErrAmountOverflow)
		}
		out = sum
	}

	if in >= out {
		if in-out > math.MaxInt64 {
			return 0, fmt.Errorf("%w: fee", ErrAmountOverflow)
		}
		return int64(in - out), nil
	}
	if out-in > math.MaxInt64 {
		return 0, fmt.Errorf("%w: fee", ErrAmountOverflow)
	}
	return -int64(out - in), nil
}

// VerifyInput reports whether input i unlocks the output it spends. A
// script that fails to evaluate yields false with a nil error; errors are
// reserved for a bad index and failed output resolution.
func (v *Verifier) VerifyInput(ctx context.Context, i int) (bool, error) {
	if err := v.tx.checkIndex(i); err != nil {
		return false, err
	}
	prevOut, err := v.prevOut(ctx, i)
	if err != nil {
		return false, err
	}

	in := v.tx.Inputs[i]
	z, witness, err := v.sigHashFor(i, in, prevOut)
	if err != nil {
		log.Debugf("Input %d of %s: %v", i, v.tx.ID(), err)
		return false, nil
	}

	combined := in.scriptSig().Concat(prevOut.ScriptPubKey)
	tc := script.TxContext{
		Version:  v.tx.Version,
		Locktime: v.tx.Locktime,
		Sequence: in.Sequence,
	}
	if err := combined.Execute(z, witness, tc); err != nil {
		log.Debugf("Input %d of %s failed: %v", i, v.tx.ID(), err)
		return false, nil
	}
	return true, nil
}

// sigHashFor picks the signature hash algorithm from the shape of the spent
// output and, for P2SH, of the redeem script. Witness data is passed to the
// interpreter only for segwit spends.
func (v *Verifier) sigHashFor(i int, in *TxIn, prevOut *TxOut) (*big.Int, [][]byte, error) {
	spk := prevOut.ScriptPubKey

	switch {
	case spk.IsP2SH():
		cmds := in.scriptSig().Commands()
		if len(cmds) == 0 || !cmds[len(cmds)-1].IsData() {
			return nil, nil, fmt.Errorf("%w: P2SH scriptSig has no redeem script", ErrScriptType)
		}
		redeem, err := script.ParseRaw(cmds[len(cmds)-1].Data)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case redeem.IsP2WPKH():
			z, err := v.tx.SigHashBIP143(i, v.ms, prevOut, redeem, nil)
			return z, in.Witness, err
		case redeem.IsP2WSH():
			ws, err := witnessScript(in)
			if err != nil {
				return nil, nil, err
			}
			z, err := v.tx.SigHashBIP143(i, v.ms, prevOut, nil, ws)
			return z, in.Witness, err
		default:
			z, err := v.tx.SigHash(i, prevOut, redeem)
			return z, nil, err
		}

	case spk.IsP2WPKH():
		z, err := v.tx.SigHashBIP143(i, v.ms, prevOut, nil, nil)
		return z, in.Witness, err

	case spk.IsP2WSH():
		ws, err := witnessScript(in)
		if err != nil {
			return nil, nil, err
		}
		z, err := v.tx.SigHashBIP143(i, v.ms, prevOut, nil, ws)
		return z, in.Witness, err

	default:
		z, err := v.tx.SigHash(i, prevOut, nil)
		return z, nil, err
	}
}

// witnessScript parses the last witness item of a P2WSH spend.
func witnessScript(in *TxIn) (*script.Script, error) {
	if len(in.Witness) == 0 {
		return nil, fmt.Errorf("%w: P2WSH spend without witness", ErrScriptType)
	}
	return script.ParseRaw(in.Witness[len(in.Witness)-1])
}

// Verify reports whether the fee is non-negative and every input verifies.
func (v *Verifier) Verify(ctx context.Context) (bool, error) {
	fee, err := v.Fee(ctx)
	if errors.Is(err, ErrAmountOverflow) {
		log.Debugf("Tx %s: %v", v.tx.ID(), err)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if fee < 0 {
		log.Debugf("Tx %s spends %d more than its inputs", v.tx.ID(), -fee)
		return false, nil
	}
	for i := range v.tx.Inputs {
		ok, err := v.VerifyInput(ctx, i)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Fee is shorthand for NewVerifier(tx, resolver).Fee(ctx).
func (tx *Tx) Fee(ctx context.Context, resolver OutputResolver) (int64, error) {
	return NewVerifier(tx, resolver).Fee(ctx)
}

// VerifyInput is shorthand for NewVerifier(tx, resolver).VerifyInput(ctx, i).
func (tx *Tx) VerifyInput(ctx context.Context, resolver OutputResolver, i int) (bool, error) {
	return NewVerifier(tx, resolver).VerifyInput(ctx, i)
}

// Verify is shorthand for NewVerifier(tx, resolver).Verify(ctx).
func (tx *Tx) Verify(ctx context.Context, resolver OutputResolver) (bool, error) {
	return NewVerifier(tx, resolver).Verify(ctx)
}
