// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package vartype

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatNumber returns the shortest string that identifies num, switching to exponent
// notation below 1e-6 and from 1e21 on.
func FormatNumber(num float64) string {
	switch {
	case math.IsNaN(num):
		return "NaN"
	case math.IsInf(num, 1):
		return "Infinity"
	case math.IsInf(num, -1):
		return "-Infinity"
	case num == 0:
		return "0"
	}

	abs := math.Abs(num)
	if abs >= 1e21 || abs < 1e-6 {
		formatted := strconv.FormatFloat(num, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(formatted, "e")
		sign := exponent[:1]
		digits := strings.TrimLeft(exponent[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(num, 'f', -1, 64)
}

// ToFixed formats num with exactly digits decimals. Ties on the exact binary value are
// rounded away from zero.
func ToFixed(num float64, digits int) string {
	if math.IsNaN(num) {
		return "NaN"
	}
	if math.IsInf(num, 0) || math.Abs(num) >= 1e21 {
		return FormatNumber(num)
	}
	if digits < 0 {
		digits = 0
	}

	scaled := new(big.Rat).SetFloat64(math.Abs(num))
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	scaled.Mul(scaled, new(big.Rat).SetInt(scale))
	scaled.Add(scaled, big.NewRat(1, 2))
	rounded := new(big.Int).Quo(scaled.Num(), scaled.Denom()).String()

	if digits > 0 {
		if len(rounded) <= digits {
			rounded = strings.Repeat("0", digits-len(rounded)+1) + rounded
		}
		rounded = rounded[:len(rounded)-digits] + "." + rounded[len(rounded)-digits:]
	}
	if num < 0 {
		rounded = "-" + rounded
	}
	return rounded
}
