package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"empty", "", ""},
		{"short address untouched", "0xabc123", "0xabc123"},
		{"long address truncated", "0xab5801a7d398351b8be11c439e05c5b3259aec9b", "0xab58...ec9b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatWalletAddress(tt.address))
		})
	}
}

func TestWalletErrorUnwrap(t *testing.T) {
	cause := errors.New("provider exploded")
	werr := &WalletError{Code: WalletConnectionFailed, Message: "try again", Err: cause}

	assert.ErrorIs(t, werr, cause)
	assert.Contains(t, werr.Error(), "connection_failed")
}

func TestEnvelopeHelpers(t *testing.T) {
	assert.Equal(t, CryptoResponse{Type: "crypto", Result: "success", Payload: "x"}, CryptoSuccess("x"))
	assert.Equal(t, CryptoResponse{Type: "crypto", Result: "error", Payload: "boom"}, CryptoError("boom"))
	assert.Equal(t, CryptoResponse{Type: "crypto", Result: "cancel"}, CryptoCancel())
}
