package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
)

// userMessage turns a service error into a line fit for the terminal.
func userMessage(err error) string {
	var ve *common.ValidationError
	var rl *common.RateLimitedError

	switch {
	case errors.As(err, &rl):
		return rl.Message
	case errors.As(err, &ve):
		return "Invalid " + ve.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email/phone or password"
	case errors.Is(err, common.ErrConflict):
		return "An account with this email or phone already exists"
	case errors.Is(err, common.ErrorNotFound):
		return "Not found"
	case errors.Is(err, common.ErrNotReady):
		return "Still loading, please retry"
	}
	return "Error: " + err.Error()
}

// formatMoney renders minor units as a decimal amount.
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// parseMoney accepts "12", "12.5" or "12.50" and returns minor units.
func parseMoney(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("%w: price %q", common.ErrInvalidInput, s)
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("%w: price %q", common.ErrInvalidInput, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("%w: price %q", common.ErrInvalidInput, s)
	}
	return w*100 + f, nil
}
