// Package smp converts between the decimal SMP amounts used at the API
// boundary and the int64 base units stored internally. One SMP is 1e8
// base units; amounts never carry more than 8 fractional digits.
package smp

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const FractionalDigits = 8

var (
	ErrTooManyDigits = errors.New("amount has more than 8 fractional digits")
	ErrOutOfRange    = errors.New("amount out of range")
)

var unitScale = decimal.New(1, FractionalDigits)

// Parse converts a decimal SMP string to base units.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts an SMP amount to base units, rejecting values
// that cannot be represented exactly.
func FromDecimal(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(unitScale)
	if !scaled.IsInteger() {
		return 0, ErrTooManyDigits
	}
	if !scaled.BigInt().IsInt64() {
		return 0, ErrOutOfRange
	}
	return scaled.IntPart(), nil
}

// Format renders base units as a decimal SMP string with the full
// 8-digit fraction, e.g. 150000000 -> "1.50000000".
func Format(units int64) string {
	return decimal.New(units, -FractionalDigits).StringFixed(FractionalDigits)
}

// ToDecimal returns the SMP value of the given base units.
func ToDecimal(units int64) decimal.Decimal {
	return decimal.New(units, -FractionalDigits)
}
