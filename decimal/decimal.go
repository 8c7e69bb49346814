// Package decimal converts between textual decimal values and the byte
// layouts of the Avro decimal logical type: an unscaled two's-complement
// big-endian integer, either minimal-length (bytes) or sign-extended to a
// declared width (fixed). Scale and precision are enforced exactly; the codec
// never rounds.
package decimal

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeFormat    = "decimal_format"
	CodeScale     = "decimal_scale"
	CodePrecision = "decimal_precision"
)

// Error is a structured codec failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Codec encodes and decodes decimal values for one declared scale/precision
// pair. The zero value is unusable; construct via New.
type Codec struct {
	Precision int
	Scale     int
}

// New returns a Codec for the declared precision and scale.
func New(precision, scale int) Codec { return Codec{Precision: precision, Scale: scale} }

// value is a decimal in unscaled form: unscaled * 10^-scale.
type value struct {
	unscaled *big.Int
	scale    int
}

// EncodeBytes parses s as an exact decimal, validates it against the declared
// scale and precision, and encodes the unscaled value as a minimal big-endian
// two's-complement byte sequence.
func (c Codec) EncodeBytes(s string) ([]byte, error) {
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	v, err = c.validate(v)
	if err != nil {
		return nil, err
	}
	return twosComplement(v.unscaled), nil
}

// EncodeFixed is EncodeBytes sign-extended to size bytes, filling the leading
// bytes with 0xFF for negative values and 0x00 otherwise.
func (c Codec) EncodeFixed(s string, size int) ([]byte, error) {
	v, err := parse(s)
	if err != nil {
		return nil, err
	}
	v, err = c.validate(v)
	if err != nil {
		return nil, err
	}
	min := twosComplement(v.unscaled)
	if len(min) > size {
		return nil, &Error{
			Code:    CodePrecision,
			Message: fmt.Sprintf("Cannot encode decimal %s into a fixed of size %d", s, size),
		}
	}
	fill := byte(0x00)
	if v.unscaled.Sign() < 0 {
		fill = 0xFF
	}
	out := make([]byte, size)
	offset := size - len(min)
	for i := 0; i < offset; i++ {
		out[i] = fill
	}
	copy(out[offset:], min)
	return out, nil
}

// DecodeBytes interprets b as a big-endian two's-complement unscaled value at
// the declared scale and renders the canonical decimal string. An empty slice
// decodes as zero. Decoding is total: any byte sequence is a valid
// two's-complement value, so unlike DecodeText there is no error to return.
func (c Codec) DecodeBytes(b []byte) string {
	return value{unscaled: fromTwosComplement(b), scale: c.Scale}.String()
}

// DecodeText interprets b as UTF-8 decimal text, the form decimal values take
// at the JSON boundary, and returns the canonical string at the value's own
// scale. Scale and precision are not checked here; EncodeBytes does that.
func (c Codec) DecodeText(b []byte) (string, error) {
	v, err := parse(string(b))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// validate rescales v to the declared scale by exact digit shifting and checks
// precision. Rounding is never performed: a value with more fractional digits
// than the declared scale fails.
func (c Codec) validate(v value) (value, error) {
	valueScale := v.scale
	scaleAdjusted := false
	if valueScale != c.Scale {
		diff := c.Scale - valueScale
		if diff > 0 {
			v.unscaled = new(big.Int).Mul(v.unscaled, pow10(diff))
		} else {
			q, rem := new(big.Int).QuoRem(v.unscaled, pow10(-diff), new(big.Int))
			if rem.Sign() != 0 {
				return value{}, &Error{
					Code:    CodeScale,
					Message: fmt.Sprintf("Cannot encode decimal with scale %d as scale %d without rounding", valueScale, c.Scale),
				}
			}
			v.unscaled = q
		}
		v.scale = c.Scale
		scaleAdjusted = true
	}

	if prec := precision(v.unscaled); prec > c.Precision {
		if scaleAdjusted {
			return value{}, &Error{
				Code: CodePrecision,
				Message: fmt.Sprintf(
					"Cannot encode decimal with precision %d as max precision %d. This is after safely adjusting scale from %d to required %d",
					prec, c.Precision, valueScale, c.Scale),
			}
		}
		return value{}, &Error{
			Code:    CodePrecision,
			Message: fmt.Sprintf("Cannot encode decimal with precision %d as max precision %d", prec, c.Precision),
		}
	}
	return v, nil
}

// parse reads an optionally signed decimal with optional fraction and
// exponent, for example -12.34, 0.005, 1.2e3.
func parse(s string) (value, error) {
	orig := s
	if s == "" {
		return value{}, formatError(orig)
	}
	neg := false
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		neg = true
		s = s[1:]
	}
	exp := 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return value{}, formatError(orig)
		}
		exp = e
		s = s[:i]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}
	digits := intPart + frac
	if digits == "" || !isDigits(digits) {
		return value{}, formatError(orig)
	}
	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return value{}, formatError(orig)
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return value{unscaled: unscaled, scale: len(frac) - exp}, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func formatError(s string) *Error {
	return &Error{Code: CodeFormat, Message: fmt.Sprintf("Cannot parse %q as a decimal value", s)}
}

// String renders the canonical plain decimal string, for example 123.45,
// 0.005, -7. A non-positive scale appends zeros instead of switching to
// scientific notation.
func (v value) String() string {
	digits := new(big.Int).Abs(v.unscaled).String()
	var b strings.Builder
	if v.unscaled.Sign() < 0 {
		b.WriteByte('-')
	}
	switch {
	case v.scale <= 0:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", -v.scale))
	case len(digits) <= v.scale:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", v.scale-len(digits)))
		b.WriteString(digits)
	default:
		b.WriteString(digits[:len(digits)-v.scale])
		b.WriteByte('.')
		b.WriteString(digits[len(digits)-v.scale:])
	}
	return b.String()
}

// precision counts the significant digits of the unscaled magnitude; zero has
// precision 1.
func precision(x *big.Int) int {
	if x.Sign() == 0 {
		return 1
	}
	return len(new(big.Int).Abs(x).String())
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// twosComplement mirrors the minimal big-endian layout of a two's-complement
// integer: the shortest byte sequence whose top bit agrees with the sign.
func twosComplement(x *big.Int) []byte {
	var bits int
	if x.Sign() >= 0 {
		bits = x.BitLen()
	} else {
		bits = new(big.Int).Not(x).BitLen()
	}
	n := bits/8 + 1
	out := make([]byte, n)
	if x.Sign() >= 0 {
		x.FillBytes(out)
		return out
	}
	m := new(big.Int).Lsh(big.NewInt(1), uint(n*8))
	m.Add(m, x)
	m.FillBytes(out)
	return out
}

func fromTwosComplement(b []byte) *big.Int {
	x := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return x
}
