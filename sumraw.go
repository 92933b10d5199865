// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

import "math"

// negInf is the sentinel used throughout the kernel for "-infinity" in
// exponent bookkeeping (maxexp2, err): no real operand exponent can
// reach it, since Float.exp is bounded by MaxExp. It leaves enough
// headroom that negInf + a modest logn/cq never overflows int64.
const negInf = math.MinInt64 / 4

// sumRawResult is what the truncated-sum loop (component D) hands back
// to the rounding stage.
type sumRawResult struct {
	exact   bool  // true iff the accumulated sum is exactly zero
	cancel  int64 // leading sign-bit run length
	e       int64 // result exponent: minexp + wq - cancel
	err     int64 // exponent upper-bounding the pending error, or negInf if exact
	maxexp2 int64 // largest exponent not folded in on the final pass, or negInf
}

// sumRaw repeatedly folds every regular input into win, re-homing and
// widening the window on catastrophic cancellation, until either the
// exact sum is zero or the accumulated error is small enough relative
// to prec to guarantee correct rounding (with prec == 0 it returns as
// soon as err <= e). The TMD secondary pass does not call sumRaw:
// resolveTMD folds the inputs into a window of its own.
func sumRaw(win *window, inputs []*Float, logn uint, prec uint) sumRawResult {
	for {
		win.reset(win.minexp)
		maxexp2 := int64(negInf)
		for _, x := range inputs {
			win.fold(x, &maxexp2)
		}

		sign, cancel := win.leadingRun()
		wq := win.wq()
		if cancel == wq && sign == 0 {
			if maxexp2 == negInf {
				return sumRawResult{exact: true, err: negInf, maxexp2: negInf}
			}
			win.rehome(maxexp2)
			continue
		}

		e := win.minexp + wq - cancel
		var err int64
		if maxexp2 == negInf {
			err = negInf
		} else {
			err = maxexp2 + int64(logn)
		}

		if err == negInf || err <= e-int64(prec) {
			return sumRawResult{cancel: cancel, e: e, err: err, maxexp2: maxexp2}
		}

		shift := cancel - 2 - max64(0, err-e)
		if shift < 1 {
			shift = 1
		}
		win.minexp -= shift
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
