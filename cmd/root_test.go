package cmd

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultPathFlagWins(t *testing.T) {
	vaultFlag = "/some/flag/vault"
	defer func() { vaultFlag = "" }()
	viper.Set("vault_path", "/some/config/vault")
	defer viper.Set("vault_path", "")

	p, err := vaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/some/flag/vault", p)
}

func TestVaultPathConfigFallback(t *testing.T) {
	viper.Set("vault_path", "/some/config/vault")
	defer viper.Set("vault_path", "")

	p, err := vaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/some/config/vault", p)
}

func TestVaultPathDefaultsToCwd(t *testing.T) {
	p, err := vaultPath()
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, p)
}

func TestBuildAppRejectsMissingVault(t *testing.T) {
	vaultFlag = "/does/not/exist"
	defer func() { vaultFlag = "" }()

	_, err := buildApp(&cobra.Command{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault directory not found")
}
