package keystore

import "sync"

// Session holds the single active signer account for the process.
// The original service kept one unlocked account at a time, the session
// keeps that behavior behind a lock.
type Session struct {
	mu      sync.RWMutex
	account *Account
}

// Set makes the account the active signer
func (s *Session) Set(account *Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = account
}

// Get returns the active signer if one is set
func (s *Session) Get() (*Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return nil, false
	}
	return s.account, true
}

// Forget clears the active signer when it matches name
func (s *Session) Forget(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account != nil && s.account.Name == name {
		s.account = nil
	}
}
