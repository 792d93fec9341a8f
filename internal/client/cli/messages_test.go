package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "rate limited uses its own message",
			err:  fmt.Errorf("sign in: %w", &common.RateLimitedError{WaitMinutes: 2, Message: "Too many attempts. Please try again in 2 minutes."}),
			want: "Too many attempts. Please try again in 2 minutes.",
		},
		{name: "validation", err: common.NewValidationError("email", "invalid format"), want: "Invalid email: invalid format"},
		{name: "credentials", err: common.ErrInvalidCredentials, want: "Invalid email/phone or password"},
		{name: "conflict", err: fmt.Errorf("sign up: %w", common.ErrConflict), want: "An account with this email or phone already exists"},
		{name: "not found", err: common.ErrorNotFound, want: "Not found"},
		{name: "other", err: errors.New("disk on fire"), want: "Error: disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00", formatMoney(0))
	assert.Equal(t, "12.05", formatMoney(1205))
	assert.Equal(t, "-3.50", formatMoney(-350))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "12", want: 1200},
		{in: "12.5", want: 1250},
		{in: " 12.50 ", want: 1250},
		{in: "0.07", want: 7},
		{in: "12.505", wantErr: true},
		{in: ".50", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseMoney(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
