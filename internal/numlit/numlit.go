package numlit

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Decimal is a normalized decimal literal: sign kept, separators stripped.
type Decimal struct {
	Normalized string
	IsFloat    bool
}

// NormalizeDecimal validates a literal of the form -?digits[_digits]*(.digits)?
// and strips the '_' separators.
func NormalizeDecimal(lit string) (Decimal, error) {
	sign, body := splitSign(lit)
	if body == "" {
		return Decimal{}, fmt.Errorf("digits required")
	}
	if strings.Contains(body, ".") {
		parts := strings.SplitN(body, ".", 2)
		if parts[0] == "" || parts[1] == "" {
			return Decimal{}, fmt.Errorf("float literal requires digits on both sides of decimal point")
		}
		if err := validateDigits(parts[0], 10); err != nil {
			return Decimal{}, fmt.Errorf("invalid number literal: %w", err)
		}
		if err := validateDigits(parts[1], 10); err != nil {
			return Decimal{}, fmt.Errorf("invalid number literal: %w", err)
		}
		return Decimal{
			Normalized: sign + stripUnderscores(parts[0]) + "." + stripUnderscores(parts[1]),
			IsFloat:    true,
		}, nil
	}
	if err := validateDigits(body, 10); err != nil {
		return Decimal{}, fmt.Errorf("invalid number literal: %w", err)
	}
	return Decimal{Normalized: sign + stripUnderscores(body)}, nil
}

func ParseInt(lit string) (int64, error) {
	d, err := NormalizeDecimal(lit)
	if err != nil {
		return 0, err
	}
	if d.IsFloat {
		return 0, fmt.Errorf("invalid integer literal")
	}
	v, err := strconv.ParseInt(d.Normalized, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("integer literal out of range")
		}
		return 0, fmt.Errorf("invalid integer literal")
	}
	return v, nil
}

func ParseFloat(lit string) (float64, error) {
	d, err := NormalizeDecimal(lit)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(d.Normalized, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("float literal out of range")
		}
		return 0, fmt.Errorf("invalid float literal")
	}
	return v, nil
}

// ParseBinary parses -?b[01]+ into an arbitrary precision integer.
func ParseBinary(lit string) (*big.Int, error) {
	sign, body := splitSign(lit)
	if !strings.HasPrefix(body, "b") {
		return nil, fmt.Errorf("binary literal must start with 'b'")
	}
	digits := body[1:]
	if err := validateDigits(digits, 2); err != nil {
		return nil, fmt.Errorf("invalid binary literal: %w", err)
	}
	v, ok := new(big.Int).SetString(sign+stripUnderscores(digits), 2)
	if !ok {
		return nil, fmt.Errorf("invalid binary literal")
	}
	return v, nil
}

// FormatBinary renders v the way a binary literal is written.
func FormatBinary(v *big.Int) string {
	if v.Sign() < 0 {
		return "-b" + new(big.Int).Neg(v).Text(2)
	}
	return "b" + v.Text(2)
}

func splitSign(lit string) (string, string) {
	if strings.HasPrefix(lit, "-") {
		return "-", lit[1:]
	}
	return "", lit
}

func validateDigits(s string, base int) error {
	if s == "" {
		return fmt.Errorf("digits required")
	}
	prevUnderscore := false
	seenDigit := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '_' {
			if !seenDigit || prevUnderscore {
				return fmt.Errorf("underscores must separate digits")
			}
			prevUnderscore = true
			continue
		}
		if ch < '0' || ch > '9' || int(ch-'0') >= base {
			return fmt.Errorf("invalid digit %q for base %d", ch, base)
		}
		seenDigit = true
		prevUnderscore = false
	}
	if prevUnderscore {
		return fmt.Errorf("underscores must separate digits")
	}
	return nil
}

func stripUnderscores(s string) string {
	if strings.IndexByte(s, '_') == -1 {
		return s
	}
	return strings.ReplaceAll(s, "_", "")
}
