// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !bigsum_debug

package bigsum

// debugBigsum gates the internal consistency assertions in validate,
// which the rounding code calls on each Sum result. It is off by
// default; build with -tags bigsum_debug to enable it.
const debugBigsum = false
