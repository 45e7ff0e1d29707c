package models

// VaultSettings holds the vault-scoped user preferences read by the
// confirmation gate on every tool call.
type VaultSettings struct {
	RequireConfirmations       bool `json:"require_confirmations"`
	ConfirmationTimeoutMinutes int  `json:"confirmation_timeout_minutes"`
}

// DefaultVaultSettings returns the settings written on first use.
func DefaultVaultSettings() VaultSettings {
	return VaultSettings{
		RequireConfirmations:       true,
		ConfirmationTimeoutMinutes: 5,
	}
}
