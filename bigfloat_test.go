// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lefevre-kernel/bigsum/internal/limb"
)

func TestNewFloatIsPositiveZero(t *testing.T) {
	z := NewFloat(53)
	assert.Equal(t, Zero, z.Class())
	assert.False(t, z.Signbit())
	assert.Equal(t, uint(53), z.Prec())
}

func TestSetUint64Exact(t *testing.T) {
	z := NewFloat(64)
	z.SetUint64(12345)
	assert.Equal(t, Regular, z.Class())
	assert.Equal(t, 1, z.Sign())
	assert.Equal(t, float64(12345), z.Float64())
}

func TestSetInt64Negative(t *testing.T) {
	z := NewFloat(64)
	z.SetInt64(-7)
	assert.Equal(t, Regular, z.Class())
	assert.Equal(t, -1, z.Sign())
	assert.Equal(t, float64(-7), z.Float64())
}

func TestSetFloat64RoundTrip(t *testing.T) {
	for _, v := range []float64{1, -1, 0.5, 3.25, 1e10, -1e-10} {
		z := NewFloat(53)
		z.SetFloat64(v)
		assert.Equal(t, v, z.Float64(), "value %v", v)
	}
}

func TestSetFloat64SpecialValues(t *testing.T) {
	z := NewFloat(53)
	z.SetFloat64(math.NaN())
	assert.True(t, z.IsNaN())
}

func TestSetIntExact(t *testing.T) {
	z := NewFloat(128)
	v := new(big.Int).Lsh(big.NewInt(1), 100) // 2^100
	z.SetInt(v)
	assert.Equal(t, Regular, z.Class())
	assert.Equal(t, int64(101), z.Exp())
}

func TestSetLowersPrecisionFromTopWords(t *testing.T) {
	// x holds an exact value whose top 2 words carry all the significant
	// bits; reducing precision to fit in 1 word must keep the
	// most-significant content, not silently take the low word.
	hi := limb.Word(1) << (limb.Bits - 1)
	x := &Float{class: Regular, neg: false, exp: int64(2 * limb.Bits), mant: []limb.Word{0, hi}}
	z := NewFloat(limb.Bits)
	z.Set(x)
	assert.Equal(t, Regular, z.Class())
	assert.Equal(t, hi, z.mant[0])
}

func TestSetUint64RoundsUpAndRenormalizesOnOverflow(t *testing.T) {
	// 255 = 0.11111111 * 2^8; rounded to 4 bits the round and sticky bits
	// are both 1, forcing a round-up that overflows the 4-bit mantissa
	// field ("1111" + 1) and must renormalize to 0.1000 * 2^9 = 256.
	z := NewFloat(4)
	z.SetUint64(255)
	assert.Equal(t, Regular, z.Class())
	assert.Equal(t, int64(9), z.Exp())
	assert.Equal(t, limb.Word(1)<<(limb.Bits-1), z.mant[0])
}

func TestValidatePanicsOnDenormalInDebugBuild(t *testing.T) {
	if !debugBigsum {
		t.Skip("only meaningful with -tags bigsum_debug")
	}
	x := &Float{class: Regular, exp: 1, prec: 4, mant: []limb.Word{1}}
	assert.Panics(t, func() { x.validate() })
}
