package session

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"grocer/internal/core"
)

var errNotWhole = errors.New("not a whole number")

// ask prints prompt and returns the next trimmed line. A final line without
// a newline is still returned; io.EOF is returned only when nothing is left.
func (s *Session) ask(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		s.println()
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Session) askQuantity(prompt string) (int, error) {
	v, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := wholeNumber(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidQuantity, v)
	}
	return n, nil
}

func (s *Session) askStock(prompt string) (int, error) {
	v, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := wholeNumber(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidStock, v)
	}
	return n, nil
}

func (s *Session) askPrice(prompt string) (decimal.Decimal, error) {
	v, err := s.ask(prompt)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return core.ParsePrice(v)
}

// wholeNumber parses decimal digits such as "7", "07" or "7.0". Parsing
// goes through a float so that leading zeros are never read as octal.
func wholeNumber(s string) (int, error) {
	f, err := cast.ToFloat64E(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotWhole
	}
	return cast.ToIntE(f)
}
