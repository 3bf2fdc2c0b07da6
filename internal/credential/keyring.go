package credential

import (
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/dayplan/internal/model"
)

const serviceName = "dayplan"

// Open returns the keyring that backs the preferences store. The "file"
// backend keeps an encrypted directory under cfg.Dir; "auto" prefers the
// platform keychain and falls back to the same file backend.
func Open(cfg model.PreferencesConfig) (keyring.Keyring, error) {
	backends := []keyring.BackendType{
		keyring.KeychainBackend,
		keyring.SecretServiceBackend,
		keyring.WinCredBackend,
		keyring.PassBackend,
		keyring.FileBackend,
	}
	if cfg.Backend == "file" {
		backends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          backends,
		FileDir:                  cfg.Dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("dayplan-preferences"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}
