// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

import "github.com/lefevre-kernel/bigsum/internal/limb"

// bits64 reports the number of bits needed to hold a count up to n (0
// for n <= 1), used to size logn = ceil(log2(rn)).
func bits64(n int) uint {
	var b uint
	for v := n - 1; v > 0; v >>= 1 {
		b++
	}
	return b
}

// Sum computes out = round(sum(inputs), mode) at out's own precision
// and returns the IEEE-754-style signed ternary value: positive if the
// stored result is greater than the exact sum, negative if smaller,
// zero if the sum was representable exactly.
//
// out's precision must already be set with SetPrec or NewFloat before
// calling Sum. Sum never reads out as an input; aliasing out with an
// element of inputs is not supported.
func Sum(out *Float, inputs []*Float, mode RoundingMode) int {
	switch len(inputs) {
	case 0:
		out.setZero(false)
		return 0
	case 1:
		return sumOne(out, inputs[0], mode)
	case 2:
		return sumTwo(out, inputs[0], inputs[1], mode)
	}

	scan := classify(inputs, mode)
	switch scan.class {
	case classHasNaN:
		out.class = NaN
		return 0
	case classMixedInf:
		out.class = NaN
		return 0
	case classAllInf:
		out.class = Inf
		out.neg = scan.singleton < 0
		return 0
	case classAllZero:
		out.setZero(scan.singleton < 0)
		return 0
	}

	if scan.rn <= 2 {
		regulars := make([]*Float, 0, scan.rn)
		for _, x := range inputs {
			if x.class == Regular {
				regulars = append(regulars, x)
			}
		}
		if len(regulars) == 1 {
			return sumOne(out, regulars[0], mode)
		}
		return sumTwo(out, regulars[0], regulars[1], mode)
	}

	prec := out.prec
	logn := bits64(scan.rn) + 1
	win, res := runWindow(inputs, scan.maxExp, logn, prec)
	return roundAndResolve(win, res, logn, prec, mode, inputs, out)
}

// sumOne implements Sum's n == 1 fast path and the rn == 1 reduction
// (spec.md §4.F): copy x's value into out, rounding only if out's
// precision is smaller than x's own.
func sumOne(out *Float, x *Float, mode RoundingMode) int {
	switch x.class {
	case NaN:
		out.class = NaN
		return 0
	case Inf:
		out.class = Inf
		out.neg = x.neg
		return 0
	case Zero:
		out.setZero(x.neg)
		return 0
	}
	return roundMagnitude(out, x.neg, x.mant, x.exp, out.prec, mode)
}

// sumTwo implements Sum's n == 2 fast path and the rn == 2 reduction
// (spec.md §4.F): resolve NaN/Inf/zero combinations directly, the way
// classify would for a larger input set, then dispatch regular-regular
// pairs to primitiveAdd rather than building a full cancellation window.
func sumTwo(out *Float, x, y *Float, mode RoundingMode) int {
	if x.class == NaN || y.class == NaN {
		out.class = NaN
		return 0
	}
	if x.class == Inf || y.class == Inf {
		switch {
		case x.class == Inf && y.class == Inf:
			if x.neg != y.neg {
				out.class = NaN
				return 0
			}
			out.class = Inf
			out.neg = x.neg
			return 0
		case x.class == Inf:
			out.class = Inf
			out.neg = x.neg
			return 0
		default:
			out.class = Inf
			out.neg = y.neg
			return 0
		}
	}
	if x.class == Zero && y.class == Zero {
		neg := x.neg && y.neg
		if x.neg != y.neg {
			neg = mode == ToNegativeInf
		}
		out.setZero(neg)
		return 0
	}
	if x.class == Zero {
		return sumOne(out, y, mode)
	}
	if y.class == Zero {
		return sumOne(out, x, mode)
	}
	return primitiveAdd(out, x, y, mode)
}

// primitiveAdd is the library's primitive binary add that Sum's n == 2
// fast path and rn == 2 reduction dispatch to in place of a full
// classify scan: logn is fixed at the two-operand guard size since
// there are only ever two regular terms that can cancel against each
// other.
func primitiveAdd(out *Float, x, y *Float, mode RoundingMode) int {
	inputs := []*Float{x, y}
	maxExp := x.exp
	if y.exp > maxExp {
		maxExp = y.exp
	}
	prec := out.prec
	logn := bits64(2) + 1
	win, res := runWindow(inputs, maxExp, logn, prec)
	return roundAndResolve(win, res, logn, prec, mode, inputs, out)
}

// runWindow sizes a window for the given operand-count guard (logn) and
// maximum exponent, then runs sum_raw over inputs, which must all be
// Regular.
func runWindow(inputs []*Float, maxExp int64, logn uint, prec uint) (*window, sumRawResult) {
	cq := logn + 2 // one extra guard bit beyond logn+1 against AddVV/SubVV carry chains

	wq := prec + cq
	ws := limbCount(wq)
	// widen to a whole number of words and make sure the window is never
	// narrower than the guard band itself.
	wq = uint(ws) * limb.Bits
	if wq <= cq {
		ws++
		wq = uint(ws) * limb.Bits
	}

	win := newWindow(ws, cq, maxExp)
	win.minexp = maxExp - int64(wq) + int64(cq)

	return win, sumRaw(win, inputs, logn, prec)
}
