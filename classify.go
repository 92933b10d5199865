// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bigsum

// scanClass is the outcome of a single classifying pass over the inputs
// to Sum.
type scanClass int

const (
	classGeneric scanClass = iota
	classHasNaN
	classMixedInf
	classAllInf
	classAllZero
)

// scanResult summarizes one pass over the input slice: how many are
// regular (finite, non-zero), the largest exponent among them, the
// class of the input set, and — for the all-Inf/all-zero outcomes —
// the sign to report.
type scanResult struct {
	class     scanClass
	rn        int
	maxExp    int64
	singleton int // sign to use for an all-Inf or all-zero result: -1 or +1
}

// classify performs the single scan spec.md's component B describes:
// detect NaN, mixed-sign infinities, all-singular (zero/same-sign-Inf)
// input sets, count regular inputs, and track their maximum exponent.
func classify(inputs []*Float, mode RoundingMode) scanResult {
	var (
		rn        int
		maxExp    int64 = negInf
		sawInf    bool
		infNeg    bool
		mixedInf  bool
		sawZero   bool
		zeroNeg   bool
		zeroMixed bool
	)

	for _, x := range inputs {
		switch x.class {
		case NaN:
			return scanResult{class: classHasNaN}
		case Inf:
			if !sawInf {
				sawInf = true
				infNeg = x.neg
			} else if infNeg != x.neg {
				mixedInf = true
			}
		case Zero:
			if !sawZero {
				sawZero = true
				zeroNeg = x.neg
			} else if zeroNeg != x.neg {
				zeroMixed = true
			}
		case Regular:
			rn++
			if x.exp > maxExp {
				maxExp = x.exp
			}
		}
	}

	if mixedInf {
		return scanResult{class: classMixedInf}
	}
	if sawInf {
		sign := 1
		if infNeg {
			sign = -1
		}
		return scanResult{class: classAllInf, singleton: sign}
	}
	if rn == 0 {
		// All inputs are zeros (sawZero, since len(inputs) > 0 is assumed
		// by the caller for this path — n == 0 is handled separately).
		sign := 1
		if !zeroMixed {
			if zeroNeg {
				sign = -1
			}
		} else if mode == ToNegativeInf {
			sign = -1
		}
		return scanResult{class: classAllZero, singleton: sign}
	}

	return scanResult{class: classGeneric, rn: rn, maxExp: maxExp}
}
