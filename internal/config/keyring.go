package config

import (
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "1password-actions"
	keyringUser    = "connect-server-token"
)

// TokenFromKeyring fetches a Connect token previously stored with
// StoreToken. Returns keyring.ErrNotFound when none is stored.
func TokenFromKeyring() (string, error) {
	return keyring.Get(keyringService, keyringUser)
}

// StoreToken saves the Connect token in the OS keyring for local runs.
func StoreToken(token string) error {
	return keyring.Set(keyringService, keyringUser, token)
}

// DeleteToken removes a stored Connect token.
func DeleteToken() error {
	return keyring.Delete(keyringService, keyringUser)
}
