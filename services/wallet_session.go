package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/luckychip/casino_backend/models"
)

// Events a wallet provider can notify the session manager about.
const (
	WalletEventAccountsChanged = "accountsChanged"
	WalletEventChainChanged    = "chainChanged"
)

// ProviderRejectedCode is the wallet provider's "user denied request" code.
const ProviderRejectedCode = 4001

// Localized messages surfaced through WalletSession.LastError.
const (
	msgProviderUnavailable = "MetaMask is not installed. Please install MetaMask to continue."
	msgUserRejected        = "Please connect your wallet to continue."
	msgConnectionFailed    = "Failed to connect wallet. Please try again."
	msgReconnectRequired   = "Wallet disconnected. Please reconnect to continue."
)

// ProviderError is the error shape wallet providers report. Rejections are
// recognized by Code exactly once, here at the adapter boundary.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("wallet provider error %d: %s", e.Code, e.Message)
}

// WalletSubscription is a registered provider event listener. Unsubscribe
// releases it; it must be safe to call more than once.
type WalletSubscription interface {
	Unsubscribe()
}

// WalletProvider abstracts the browser-injected wallet extension so a fake
// can be substituted in tests. RequestAccounts prompts the user; Accounts
// answers silently with already-authorized accounts.
type WalletProvider interface {
	Name() string
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
	Subscribe(event string, handler func(payload interface{})) (WalletSubscription, error)
}

// WalletSessionManager tracks a single wallet provider's connection state.
// It is owned exclusively by the UI surface that created it; concurrent
// Connect calls are a caller error but must not corrupt state, so all state
// transitions run under one mutex with last-write-wins semantics.
type WalletSessionManager struct {
	mu         sync.Mutex
	provider   WalletProvider // nil when no wallet extension is present
	session    models.WalletSession
	subs       []WalletSubscription
	onSession  func(models.WalletSession)
	invalidate func()
	translate  func(string) string
}

// NewWalletSessionManager creates an empty session over the given provider.
// provider may be nil (no wallet extension installed). onSession receives
// every session the caller should render; invalidate is called on network
// change to reset all chain-derived state the owner holds.
func NewWalletSessionManager(provider WalletProvider, onSession func(models.WalletSession), invalidate func()) *WalletSessionManager {
	return &WalletSessionManager{
		provider:   provider,
		onSession:  onSession,
		invalidate: invalidate,
		translate:  func(msg string) string { return msg },
	}
}

// SetTranslator installs a message translator for user-facing errors.
func (m *WalletSessionManager) SetTranslator(translate func(string) string) {
	if translate == nil {
		return
	}
	m.mu.Lock()
	m.translate = translate
	m.mu.Unlock()
}

// Session returns a copy of the current session state.
func (m *WalletSessionManager) Session() models.WalletSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// CheckExistingConnection queries the provider for already-authorized
// accounts without prompting the user and adopts one if present. It is a
// no-op when no provider is installed or no account is authorized.
func (m *WalletSessionManager) CheckExistingConnection(ctx context.Context) {
	if m.provider == nil {
		return
	}

	accounts, err := m.provider.Accounts(ctx)
	if err != nil {
		log.Printf("Error checking wallet connection: %v", err)
		return
	}

	address, ok := firstValidAccount(accounts)
	if !ok {
		return
	}

	m.mu.Lock()
	m.session.Address = address
	m.session.ProviderName = m.provider.Name()
	m.session.LastError = ""
	session := m.session
	m.mu.Unlock()

	m.emit(session)
}

// Connect prompts the user to authorize an account and adopts it. On success
// it registers account-change and chain-change listeners and emits the new
// session. Every exit path clears IsConnecting.
func (m *WalletSessionManager) Connect(ctx context.Context) error {
	if m.provider == nil {
		return m.fail(&models.WalletError{
			Code:    models.WalletProviderUnavailable,
			Message: m.localize(msgProviderUnavailable),
		})
	}

	m.mu.Lock()
	m.session.IsConnecting = true
	m.session.LastError = ""
	m.mu.Unlock()

	accounts, err := m.provider.RequestAccounts(ctx)
	if err != nil {
		return m.fail(classifyProviderError(err, m.localizer()))
	}

	address, ok := firstValidAccount(accounts)
	if !ok {
		return m.fail(&models.WalletError{
			Code:    models.WalletConnectionFailed,
			Message: m.localize(msgConnectionFailed),
			Err:     fmt.Errorf("provider returned no usable account"),
		})
	}

	m.mu.Lock()
	m.releaseSubscriptions()
	m.session = models.WalletSession{
		Address:      address,
		ProviderName: m.provider.Name(),
	}
	m.registerListeners()
	session := m.session
	m.mu.Unlock()

	m.emit(session)
	return nil
}

// Disconnect clears the session and releases provider listeners. It is
// local-only (wallet providers expose no programmatic disconnect) and
// idempotent: disconnecting while disconnected emits the same empty session.
func (m *WalletSessionManager) Disconnect() {
	m.mu.Lock()
	m.releaseSubscriptions()
	m.session = models.WalletSession{}
	session := m.session
	m.mu.Unlock()

	m.emit(session)
}

// fail records the error on the session, clears IsConnecting and returns it.
func (m *WalletSessionManager) fail(werr *models.WalletError) error {
	m.mu.Lock()
	m.session.IsConnecting = false
	m.session.LastError = werr.Message
	m.mu.Unlock()
	return werr
}

// localizer snapshots the translator under the lock.
func (m *WalletSessionManager) localizer() func(string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.translate
}

func (m *WalletSessionManager) localize(msg string) string {
	return m.localizer()(msg)
}

// registerListeners subscribes to provider notifications. Caller holds mu.
func (m *WalletSessionManager) registerListeners() {
	if sub, err := m.provider.Subscribe(WalletEventAccountsChanged, m.handleAccountsChanged); err == nil {
		m.subs = append(m.subs, sub)
	} else {
		log.Printf("Failed to subscribe to account changes: %v", err)
	}
	if sub, err := m.provider.Subscribe(WalletEventChainChanged, m.handleChainChanged); err == nil {
		m.subs = append(m.subs, sub)
	} else {
		log.Printf("Failed to subscribe to chain changes: %v", err)
	}
}

// releaseSubscriptions unsubscribes every stored listener. Caller holds mu.
func (m *WalletSessionManager) releaseSubscriptions() {
	for _, sub := range m.subs {
		sub.Unsubscribe()
	}
	m.subs = nil
}

// handleAccountsChanged reacts to the provider's account list changing. Zero
// accounts is an implicit disconnect; otherwise the first account becomes
// the session address without going through Connect's failure paths.
func (m *WalletSessionManager) handleAccountsChanged(payload interface{}) {
	accounts, _ := payload.([]string)

	m.mu.Lock()
	if len(accounts) == 0 {
		m.session.Address = ""
		m.session.ProviderName = ""
		m.session.LastError = m.translate(msgReconnectRequired)
		session := m.session
		m.mu.Unlock()
		m.emit(session)
		return
	}

	address, ok := firstValidAccount(accounts)
	if !ok {
		m.mu.Unlock()
		log.Printf("Ignoring account change with no usable account")
		return
	}

	m.session.Address = address
	m.session.LastError = ""
	session := m.session
	m.mu.Unlock()

	m.emit(session)
}

// handleChainChanged resets the whole session and tells the owner to drop
// every piece of chain-derived state. The session layer never tries to
// reconcile cross-chain state itself.
func (m *WalletSessionManager) handleChainChanged(interface{}) {
	m.mu.Lock()
	m.releaseSubscriptions()
	m.session = models.WalletSession{}
	m.mu.Unlock()

	if m.invalidate != nil {
		m.invalidate()
	}
}

func (m *WalletSessionManager) emit(session models.WalletSession) {
	if m.onSession != nil {
		m.onSession(session)
	}
}

// classifyProviderError maps a provider failure to a typed wallet error.
// The rejection code is inspected here and nowhere else.
func classifyProviderError(err error, translate func(string) string) *models.WalletError {
	var perr *ProviderError
	if errors.As(err, &perr) && perr.Code == ProviderRejectedCode {
		return &models.WalletError{
			Code:    models.WalletUserRejected,
			Message: translate(msgUserRejected),
			Err:     err,
		}
	}
	return &models.WalletError{
		Code:    models.WalletConnectionFailed,
		Message: translate(msgConnectionFailed),
		Err:     err,
	}
}

// firstValidAccount picks the first well-formed account from a provider
// account list, normalized to lowercase hex.
func firstValidAccount(accounts []string) (string, bool) {
	for _, account := range accounts {
		if common.IsHexAddress(account) {
			return strings.ToLower(account), true
		}
	}
	return "", false
}
