// Copyright 2024 The bigsum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command bigsumctl is a small driver around the bigsum summation
// kernel: it parses a list of decimal operands, sums them at a chosen
// precision and rounding mode, and prints the result along with the
// ternary value the kernel returned.
package main

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lefevre-kernel/bigsum"
)

var version = "dev"

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "bigsumctl",
		Short: "Correctly-rounded arbitrary-precision summation",
	}

	var (
		prec     uint
		modeName string
		verbose  bool
	)

	sumCmd := &cobra.Command{
		Use:   "sum [operands...]",
		Short: "Sum a list of decimal operands at a given precision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}

			mode, err := parseMode(modeName)
			if err != nil {
				return errors.Wrap(err, "invalid rounding mode")
			}

			inputs := make([]*bigsum.Float, len(args))
			for i, a := range args {
				f, err := parseOperand(a, prec)
				if err != nil {
					return errors.Wrapf(err, "operand %d (%q)", i, a)
				}
				inputs[i] = f
				log.Debug().Int("index", i).Str("text", a).Msg("parsed operand")
			}

			out := bigsum.NewFloat(prec)
			t := bigsum.Sum(out, inputs, mode)
			log.Debug().Int("ternary", t).Msg("sum complete")

			fmt.Println(formatResult(out, t))
			return nil
		},
	}
	sumCmd.Flags().UintVar(&prec, "prec", 53, "result precision in bits")
	sumCmd.Flags().StringVar(&modeName, "mode", "nearest", "rounding mode: nearest, zero, away, down, up")
	sumCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each parsed operand")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the bigsumctl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}

	rootCmd.AddCommand(sumCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("bigsumctl failed")
		os.Exit(1)
	}
}

func parseMode(s string) (bigsum.RoundingMode, error) {
	switch strings.ToLower(s) {
	case "nearest", "":
		return bigsum.ToNearestEven, nil
	case "zero":
		return bigsum.ToZero, nil
	case "away":
		return bigsum.AwayFromZero, nil
	case "down":
		return bigsum.ToNegativeInf, nil
	case "up":
		return bigsum.ToPositiveInf, nil
	}
	return 0, errors.Errorf("unrecognized mode %q", s)
}

// parseOperand accepts decimal literals ("3.25"), scientific notation
// ("1.5e10"), and the special tokens inf/-inf/nan.
func parseOperand(s string, prec uint) (*bigsum.Float, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "+inf":
		return bigsum.NewInf(1), nil
	case "-inf":
		return bigsum.NewInf(-1), nil
	case "nan":
		return bigsum.NewNaN(), nil
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.New("not a valid decimal literal")
	}
	f := bigsum.NewFloat(prec)
	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	if den.Cmp(big.NewInt(1)) == 0 {
		return f.SetInt(num), nil
	}
	// Every non-integer operand is converted through float64, so it is
	// rounded to at most 53 significant bits whatever prec is.
	fl, _ := r.Float64()
	return f.SetFloat64(fl), nil
}

func formatResult(z *bigsum.Float, ternary int) string {
	var body string
	switch z.Class() {
	case bigsum.NaN:
		body = "nan"
	case bigsum.Inf:
		body = signStr(z.Signbit()) + "inf"
	case bigsum.Zero:
		body = signStr(z.Signbit()) + "0"
	default:
		body = strconv.FormatFloat(z.Float64(), 'g', -1, 64)
	}
	return fmt.Sprintf("%s (ternary %+d, exp %d)", body, ternary, z.Exp())
}

func signStr(neg bool) string {
	if neg {
		return "-"
	}
	return ""
}
