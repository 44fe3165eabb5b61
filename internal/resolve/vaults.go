package resolve

import (
	"context"

	"github.com/chriswardell-glean/1password-actions/internal/connect"
	"github.com/chriswardell-glean/1password-actions/internal/logging"
)

// VaultMap maps vault display names to vault identifiers. It is built fresh
// at the start of every attempt and discarded at attempt end; a failed
// attempt may have been caused by stale vault membership, so nothing is
// cached across attempts.
type VaultMap map[string]string

// buildVaultMap lists the server's vaults once and indexes them by name.
// Entries missing a name or an identifier are skipped with a warning; an
// incomplete listing entry is not itself fatal.
func buildVaultMap(ctx context.Context, client Client, logger *logging.Logger) (VaultMap, error) {
	vaults, err := client.ListVaults(ctx)
	if err != nil {
		return nil, err
	}

	m := make(VaultMap, len(vaults))
	for _, v := range vaults {
		if v.Name == "" || v.ID == "" {
			logger.Warn("Skipping vault listing entry with missing name or id (name=%q, id=%q)", v.Name, v.ID)
			continue
		}
		m[v.Name] = v.ID
	}
	logger.Debug("Resolved %d vault(s)", len(m))
	return m, nil
}

// Lookup returns the identifier for a vault display name.
func (m VaultMap) Lookup(name string) (string, bool) {
	id, ok := m[name]
	return id, ok
}

// Client is the Connect server surface the resolution pipeline depends on.
type Client interface {
	ListVaults(ctx context.Context) ([]connect.Vault, error)
	GetItemByTitle(ctx context.Context, vaultID, title string) (*connect.Item, error)
}
