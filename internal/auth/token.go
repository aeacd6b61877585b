package auth

import "sync"

// Credential is an access token granted by the identity provider together
// with the client identifier it was issued for. Immutable once obtained.
type Credential struct {
	AccessToken string
	ClientID    string
}

// PlayerConfig is the playback engine configuration derived from a Credential.
// Recomputed whenever the credential changes; consumed read-only by engine
// initialization.
type PlayerConfig struct {
	AccessToken string
	ClientID    string
	DeviceName  string
}

// NewPlayerConfig derives an engine configuration from a credential.
// The derivation is deterministic: the same credential and device name
// always produce the same configuration.
func NewPlayerConfig(cred Credential, deviceName string) PlayerConfig {
	return PlayerConfig{
		AccessToken: cred.AccessToken,
		ClientID:    cred.ClientID,
		DeviceName:  deviceName,
	}
}

// TokenStore holds the current credential and its derived player
// configuration. It is the only owner of both; callers receive copies.
type TokenStore struct {
	mu         sync.RWMutex
	cred       *Credential
	config     *PlayerConfig
	deviceName string
}

// NewTokenStore creates an empty TokenStore. The device name is folded into
// every derived PlayerConfig.
func NewTokenStore(deviceName string) *TokenStore {
	return &TokenStore{deviceName: deviceName}
}

// Set replaces the stored credential wholesale and re-derives the player
// configuration from it.
func (s *TokenStore) Set(cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := NewPlayerConfig(cred, s.deviceName)
	s.cred = &cred
	s.config = &config
}

// Credential returns a copy of the current credential, and whether one is set.
func (s *TokenStore) Credential() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// PlayerConfig returns a copy of the derived engine configuration, and
// whether one is available.
func (s *TokenStore) PlayerConfig() (PlayerConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.config == nil {
		return PlayerConfig{}, false
	}
	return *s.config, true
}

// Clear discards the stored credential and configuration.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cred = nil
	s.config = nil
}
