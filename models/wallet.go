package models

import "fmt"

// WalletErrorCode classifies wallet connection failures.
type WalletErrorCode string

const (
	// WalletProviderUnavailable means no wallet extension is installed.
	WalletProviderUnavailable WalletErrorCode = "provider_unavailable"
	// WalletUserRejected means the user explicitly declined the request.
	WalletUserRejected WalletErrorCode = "user_rejected"
	// WalletConnectionFailed covers every other provider error.
	WalletConnectionFailed WalletErrorCode = "connection_failed"
)

// WalletError is a classified wallet connection failure.
type WalletError struct {
	Code    WalletErrorCode
	Message string
	Err     error
}

func (e *WalletError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wallet %s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("wallet %s: %s", e.Code, e.Message)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// WalletSession is the connection state of a single wallet provider.
// Address and ProviderName are either both set or both empty.
type WalletSession struct {
	Address      string `json:"address"`
	ProviderName string `json:"providerName"`
	IsConnecting bool   `json:"isConnecting"`
	LastError    string `json:"lastError,omitempty"`
}

// Connected reports whether a wallet account is currently linked.
func (s WalletSession) Connected() bool {
	return s.Address != ""
}

// FormatWalletAddress truncates an address for display: first 6 and last 4
// characters joined by an ellipsis. The full address stays the canonical
// identifier everywhere else.
func FormatWalletAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
