// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build bigsum_debug

package bigsum

const debugBigsum = true
