package tx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libbtc-go/script"
)

func TestUTXOSet_AddTx(t *testing.T) {
	funding := mustParse(t, legacyTxHex)
	set := NewUTXOSet()
	set.AddTx(funding)
	assert.Equal(t, 2, set.Len())

	out, err := set.ResolveOutput(context.Background(), funding.TxID(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10011545), out.Amount)

	_, err = set.ResolveOutput(context.Background(), funding.TxID(), 2)
	assert.ErrorIs(t, err, ErrResolve)
}

func TestUTXOSet_Overwrite(t *testing.T) {
	set := NewUTXOSet()
	id := mustID(t, legacyPrevTxID)
	set.Add(id, 0, NewTxOut(1, script.New()))
	set.Add(id, 0, NewTxOut(2, script.New()))
	assert.Equal(t, 1, set.Len())

	out, err := set.ResolveOutput(context.Background(), id, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), out.Amount)
}

func TestUTXOSet_Concurrent(t *testing.T) {
	set := NewUTXOSet()
	id := mustID(t, legacyPrevTxID)

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			set.Add(id, uint32(i), NewTxOut(uint64(i), script.New()))
			_, _ = set.ResolveOutput(context.Background(), id, uint32(i))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, set.Len())
}

func TestOutPoint_String(t *testing.T) {
	in := mustParse(t, legacyTxHex).Inputs[0]
	assert.Equal(t, legacyPrevTxID+":0", in.OutPoint().String())
	assert.Equal(t, in.OutPoint().String(), in.String())
}
