package index

import (
	"math"
	"math/big"
	"testing"

	"github.com/aberic-labs/george/internal/ge"
	"github.com/stretchr/testify/require"
)

func TestDepthConstantsAreMinimalSufficient(t *testing.T) {
	assertMinimalDepth(t, 32, depth32)
	assertMinimalDepth(t, 64, depth64)
}

// assertMinimalDepth checks depth is the smallest n with 1170^n >= 2^bits.
func assertMinimalDepth(t *testing.T, bits uint, depth int) {
	t.Helper()
	space := new(big.Int).Lsh(big.NewInt(1), bits)
	fanout := big.NewInt(Fanout)

	tooSmall := new(big.Int).Exp(fanout, big.NewInt(int64(depth-1)), nil)
	require.True(t, tooSmall.Cmp(space) < 0, "1170^%d should be smaller than 2^%d", depth-1, bits)

	justRight := new(big.Int).Exp(fanout, big.NewInt(int64(depth)), nil)
	require.True(t, justRight.Cmp(space) >= 0, "1170^%d should cover 2^%d", depth, bits)
}

func TestEncodeIntPreservesOrder(t *testing.T) {
	neg, err := Encode(ge.KeyTypeInt, Space64, int64(-5))
	require.NoError(t, err)
	zero, err := Encode(ge.KeyTypeInt, Space64, int64(0))
	require.NoError(t, err)
	pos, err := Encode(ge.KeyTypeInt, Space64, int64(5))
	require.NoError(t, err)

	require.Less(t, neg.Encoded, zero.Encoded)
	require.Less(t, zero.Encoded, pos.Encoded)
}

func TestEncodeFloatPreservesOrderAndNormalizesZero(t *testing.T) {
	neg, err := Encode(ge.KeyTypeFloat, Space64, -1.5)
	require.NoError(t, err)
	negZero, err := Encode(ge.KeyTypeFloat, Space64, math.Copysign(0, -1))
	require.NoError(t, err)
	posZero, err := Encode(ge.KeyTypeFloat, Space64, 0.0)
	require.NoError(t, err)
	pos, err := Encode(ge.KeyTypeFloat, Space64, 1.5)
	require.NoError(t, err)

	require.Equal(t, negZero.Encoded, posZero.Encoded)
	require.Less(t, neg.Encoded, negZero.Encoded)
	require.Less(t, posZero.Encoded, pos.Encoded)
}

func TestEncodeFloatRejectsNaN(t *testing.T) {
	_, err := Encode(ge.KeyTypeFloat, Space64, math.NaN())
	require.Error(t, err)
}

func TestEncodeStringNumericFastPath(t *testing.T) {
	fast, err := Encode(ge.KeyTypeString, Space64, "12345")
	require.NoError(t, err)
	require.Equal(t, uint64(12345), fast.Encoded)

	hashed, err := Encode(ge.KeyTypeString, Space64, "not-a-number")
	require.NoError(t, err)
	require.NotEqual(t, uint64(0), hashed.Encoded)
}

func TestDigitsRoundTripEncoded(t *testing.T) {
	key := Key{Encoded: 123456789, Space: Space64}
	digits := key.Digits()
	require.Len(t, digits, depth64)

	var rebuilt uint64
	for _, d := range digits {
		rebuilt = rebuilt*Fanout + uint64(d)
	}
	require.Equal(t, key.Encoded, rebuilt)
}
