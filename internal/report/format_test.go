package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1234.5, "$1,234.50"},
		{-1234.5, "$-1,234.50"},
		{0, "$0.00"},
		{1234567.891, "$1,234,567.89"},
		{12.3, "$12.30"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in), "Money(%v)", tt.in)
	}
}

func TestSignedMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{200, "$+200.00"},
		{-1200.25, "$-1,200.25"},
		{0, "$+0.00"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignedMoney(tt.in), "SignedMoney(%v)", tt.in)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.34, "+2.3%"},
		{-0.07, "-0.1%"},
		{0, "+0.0%"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.in), "Percent(%v)", tt.in)
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1040.2, "1,041"},
		{1041, "1,041"},
		{0.3, "1"},
		{1500000.01, "1,500,001"},
		{math.NaN(), "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Weight(tt.in), "Weight(%v)", tt.in)
	}
}
