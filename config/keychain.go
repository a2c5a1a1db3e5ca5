package config

import (
	"errors"

	"github.com/wyg1997/ActionsBot/pkg/logger"
	"github.com/zalando/go-keyring"
)

// keychainService is the service name secrets are stored under in the OS keychain
const keychainService = "actionsbot"

// Keychain account names
const (
	KeychainTelegramToken = "telegram-bot-token"
	KeychainGitHubToken   = "github-token"
)

// keychainGet is replaced in tests
var keychainGet = func(account string) (string, error) {
	return keyring.Get(keychainService, account)
}

// StoreSecret saves a secret in the OS keychain for later LoadConfig calls
func StoreSecret(account, value string) error {
	return keyring.Set(keychainService, account, value)
}

// getSecret reads key from the environment and falls back to the OS keychain
func getSecret(key, account string) string {
	if value := getEnv(key, ""); value != "" {
		return value
	}

	value, err := keychainGet(account)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.GetLogger().Debug("Keychain lookup for %s failed: %v", account, err)
		}
		return ""
	}

	logger.GetLogger().Debug("Loaded %s from system keychain", key)
	return value
}
