// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

import "github.com/lefevre-kernel/bigsum/internal/limb"

// roundDecision applies a rounding mode to a (roundBit, sticky, lsb)
// triple and reports whether the magnitude should be rounded up. Callers
// fold any sticky information they already know about from outside the
// bits being examined into sticky before calling.
func roundDecision(mode RoundingMode, neg bool, roundBit, sticky, lsb uint) bool {
	if roundBit == 0 && sticky == 0 {
		return false
	}
	switch mode {
	case ToZero:
		return false
	case AwayFromZero:
		return true
	case ToNegativeInf:
		return neg
	case ToPositiveInf:
		return !neg
	default: // ToNearestEven
		if roundBit == 0 {
			return false
		}
		if sticky != 0 {
			return true
		}
		return lsb == 1
	}
}

// signedTernary translates a magnitude-level rounding outcome into the
// signed ternary value Sum and its single-operand helpers return: +1
// when the stored result is larger than the exact value, -1 when it is
// smaller, 0 when it is exact.
func signedTernary(neg, exact, roundedUp bool) int {
	if exact {
		return 0
	}
	if roundedUp == neg {
		return -1
	}
	return 1
}

// round rounds z's mantissa (already normalized so its top word's msb
// is set) to z's own precision, in place, using round-to-nearest-even.
// sbit carries additional sticky information from bits that were
// already dropped before z.mant was built (used by the float64/int
// constructors, which never need a caller-selectable rounding mode).
func round(z *Float, sbit uint) int {
	if z.class != Regular {
		return 0
	}
	curBits := uint(len(z.mant)) * limb.Bits
	prec := z.prec
	tgtN := limbCount(prec)

	if prec >= curBits {
		if tgtN != len(z.mant) {
			nm := make([]limb.Word, tgtN)
			copy(nm[tgtN-len(z.mant):], z.mant)
			z.mant = nm
		}
		return signedTernary(z.neg, sbit == 0, false)
	}

	drop := curBits - prec
	roundBit := limb.Bit(z.mant, drop-1)
	sticky := limb.Sticky(z.mant, drop-1) | sbit
	lsb := limb.Bit(z.mant, drop)
	up := roundDecision(ToNearestEven, z.neg, roundBit, sticky, lsb)
	exact := roundBit == 0 && sticky == 0

	nm := make([]limb.Word, tgtN)
	wordDrop := drop / limb.Bits
	bitDrop := drop % limb.Bits
	shiftRightInto(nm, z.mant[wordDrop:], bitDrop)
	// shiftRightInto lands the kept bits at the bottom of nm; bitDrop
	// equals the word-rounding padding here (curBits is always a whole
	// number of words), so shifting back left by the same amount
	// re-aligns them to the top, matching every other stored mantissa.
	limb.ShlVU(nm, nm, bitDrop)
	if up {
		carry := limb.AddVW(nm, nm, limb.Word(1)<<bitDrop)
		if carry != 0 {
			limb.ShrVU(nm, nm, 1)
			nm[tgtN-1] |= limb.Word(1) << (limb.Bits - 1)
			z.exp++
		}
	}
	z.mant = nm
	return signedTernary(z.neg, exact, up)
}

// roundMagnitude rounds a normalized regular magnitude (the msb of its
// top word set), with the given sign and exponent, to prec bits under
// mode and stores the result in out, returning the ternary value. It is
// the single-operand analogue of roundAndResolve: no window is built,
// since there is nothing to accumulate. Used by Sum's n == 1 fast path
// and its rn == 1 reduction (spec.md §4.F).
func roundMagnitude(out *Float, neg bool, mant []limb.Word, exp int64, prec uint, mode RoundingMode) int {
	out.class = Regular
	out.neg = neg
	out.prec = prec
	tgtN := limbCount(prec)
	curBits := uint(len(mant)) * limb.Bits

	if prec >= curBits {
		nm := make([]limb.Word, tgtN)
		copy(nm[tgtN-len(mant):], mant)
		out.mant = nm
		out.exp = exp
		return 0
	}

	drop := curBits - prec
	roundBit := limb.Bit(mant, drop-1)
	sticky := limb.Sticky(mant, drop-1)
	lsb := limb.Bit(mant, drop)
	up := roundDecision(mode, neg, roundBit, sticky, lsb)
	exact := roundBit == 0 && sticky == 0

	nm := make([]limb.Word, tgtN)
	wordDrop := drop / limb.Bits
	bitDrop := drop % limb.Bits
	shiftRightInto(nm, mant[wordDrop:], bitDrop)
	limb.ShlVU(nm, nm, bitDrop)
	if up {
		carry := limb.AddVW(nm, nm, limb.Word(1)<<bitDrop)
		if carry != 0 {
			limb.ShrVU(nm, nm, 1)
			nm[tgtN-1] |= limb.Word(1) << (limb.Bits - 1)
			exp++
		}
	}
	out.mant = nm
	out.exp = exp
	return signedTernary(neg, exact, up)
}

// extractMagnitude copies the prec-significant-bit window of win's
// (signed) accumulated value, ending at absolute exponent e-1 and
// spanning len(dst)*limb.Bits bits, into dst. Bits of dst below the
// kept prec bits (padding from limbCount rounding prec up to a whole
// number of words) are left zero.
func extractMagnitude(win *window, sign uint, e int64, prec uint, dst []limb.Word) {
	limb.Zero(dst)
	mag := win.w
	if sign == 1 {
		mag = make([]limb.Word, len(win.w))
		limb.Neg(mag, win.w)
	}
	targetBits := int64(len(dst)) * limb.Bits
	lowExp := e - targetBits
	shift := win.minexp - lowExp
	alignInto(dst, mag, shift)
	clearBelowBit(dst, uint(targetBits)-prec)
}

// resolveTMD determines the sign of the exact mathematical value of
// every input's contribution strictly below absolute exponent probeExp
// by refolding the full input set into a fresh window whose usable
// range ends exactly at probeExp. It is the Table Maker's Dilemma
// fallback: called only when the primary window's own bits show no
// evidence either way of a nonzero tail below its own minexp.
func resolveTMD(inputs []*Float, probeExp int64, cq uint, ws int) int {
	win2 := newWindow(ws, cq, probeExp)
	win2.minexp = probeExp - win2.wq() + int64(cq)
	win2.reset(win2.minexp)
	maxexp2 := int64(negInf)
	for _, x := range inputs {
		win2.fold(x, &maxexp2)
	}
	sign, cancel := win2.leadingRun()
	if cancel == win2.wq() && sign == 0 {
		return 0
	}
	if sign == 1 {
		return -1
	}
	return 1
}

// roundAndResolve is the kernel's component E: it takes the truncated
// sum sumRaw produced (still live in win) and rounds it to prec bits
// under mode, resolving the Table Maker's Dilemma against the full
// input set when win's own guard bits don't already settle the
// rounding decision. It stores the result in out and returns the
// signed ternary value.
func roundAndResolve(win *window, r sumRawResult, logn uint, prec uint, mode RoundingMode, inputs []*Float, out *Float) int {
	if r.exact {
		out.SetPrec(prec)
		out.setZero(mode == ToNegativeInf)
		return 0
	}

	sign, _ := win.leadingRun()
	neg := sign == 1
	e := r.e

	cut := e - int64(prec)
	roundBit := win.bitAt(cut - 1)
	sticky := win.stickyBelow(cut - 1)
	lsb := win.bitAt(cut)

	if sticky == 0 && r.err != negInf {
		if resolveTMD(inputs, win.minexp, win.cq, len(win.w)) != 0 {
			sticky = 1
		}
	}

	up := roundDecision(mode, neg, roundBit, sticky, lsb)
	exact := roundBit == 0 && sticky == 0

	out.SetPrec(prec)
	out.class = Regular
	out.neg = neg
	extractMagnitude(win, sign, e, prec, out.mant)
	if up {
		padding := uint(len(out.mant))*limb.Bits - prec
		carry := limb.AddVW(out.mant, out.mant, limb.Word(1)<<padding)
		if carry != 0 {
			limb.ShrVU(out.mant, out.mant, 1)
			out.mant[len(out.mant)-1] |= limb.Word(1) << (limb.Bits - 1)
			e++
		}
	}
	out.exp = e
	out.validate()

	return signedTernary(neg, exact, up)
}
