// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lefevre-kernel/bigsum/internal/limb"
)

const msb = limb.Word(1) << (limb.Bits - 1)

func TestWindowFoldOperandEntirelyBelow(t *testing.T) {
	win := newWindow(2, 2, 136)
	win.minexp = 10
	x := &Float{class: Regular, exp: 5, mant: []limb.Word{msb}}
	maxexp2 := int64(negInf)
	win.fold(x, &maxexp2)

	assert.Equal(t, int64(5), maxexp2, "operand entirely below the window only updates maxexp2")
	for _, w := range win.w {
		assert.Equal(t, limb.Word(0), w)
	}
}

func TestWindowFoldOperandStraddlesLowEdge(t *testing.T) {
	win := newWindow(2, 2, 126)
	win.minexp = 0
	// exp chosen so the operand's lsb (exp - len(mant)*Bits) falls below
	// minexp while its msb is still inside the window's usable range.
	x := &Float{class: Regular, exp: int64(limb.Bits) + 10, mant: []limb.Word{msb, msb}}
	maxexp2 := int64(negInf)
	win.fold(x, &maxexp2)

	assert.Equal(t, win.minexp, maxexp2, "straddling the low edge marks minexp itself as sticky")
}

func TestWindowFoldOperandAboveMaxexpIsMasked(t *testing.T) {
	win := newWindow(1, 2, 62)
	win.minexp = 0
	maxexp := win.maxexp() // wq - cq
	// exp well above the window's usable range: only the portion below
	// maxexp should ever be added; the rest is dropped by maskAboveBit
	// and is not recorded in maxexp2. This operand's only set bit lies
	// above maxexp, so nothing reaches the window.
	x := &Float{class: Regular, exp: maxexp + 40, mant: []limb.Word{msb}}
	maxexp2 := int64(negInf)
	win.fold(x, &maxexp2)

	assert.Equal(t, int64(negInf), maxexp2)
	assert.Equal(t, []limb.Word{0}, win.w)
}

func TestWindowFoldWithinWindowAddsAligned(t *testing.T) {
	win := newWindow(1, 0, int64(limb.Bits))
	win.minexp = 0
	x := &Float{class: Regular, exp: int64(limb.Bits), mant: []limb.Word{msb}}
	maxexp2 := int64(negInf)
	win.fold(x, &maxexp2)

	assert.Equal(t, []limb.Word{msb}, win.w)
	assert.Equal(t, int64(negInf), maxexp2)
}

func TestWindowFoldNegativeSubtracts(t *testing.T) {
	win := newWindow(1, 0, int64(limb.Bits))
	win.minexp = 0
	pos := &Float{class: Regular, exp: int64(limb.Bits), mant: []limb.Word{msb}}
	neg := &Float{class: Regular, neg: true, exp: int64(limb.Bits), mant: []limb.Word{msb}}
	maxexp2 := int64(negInf)
	win.fold(pos, &maxexp2)
	win.fold(neg, &maxexp2)

	sign, cancel := win.leadingRun()
	assert.Equal(t, uint(0), sign)
	assert.Equal(t, win.wq(), cancel, "equal and opposite contributions cancel to exactly zero")
}

func TestWindowLeadingRunCountsCancellation(t *testing.T) {
	win := newWindow(2, 2, 0)
	win.w[len(win.w)-1] = limb.Word(1) << (limb.Bits - 3) // top word: 2 leading zero bits, then a 1
	sign, cancel := win.leadingRun()
	assert.Equal(t, uint(0), sign)
	assert.Equal(t, int64(2), cancel, "the non-sign bit is found in the top word itself")
}

func TestWindowLeadingRunSpansWholeWords(t *testing.T) {
	win := newWindow(2, 2, 0)
	win.w[0] = limb.Word(1) << (limb.Bits - 3) // only the low word is non-zero
	sign, cancel := win.leadingRun()
	assert.Equal(t, uint(0), sign)
	assert.Equal(t, int64(limb.Bits+2), cancel, "the top word is an all-zero sign run before reaching the low word")
}
