package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sup/internal/config"
	"github.com/rileyhilliard/sup/internal/env"
	"github.com/rileyhilliard/sup/internal/errors"
	"github.com/rileyhilliard/sup/internal/logger"
)

func TestResolver_StaticOnly(t *testing.T) {
	r := NewResolver(env.FromMap(nil), nil)

	hosts, err := r.Resolve(context.Background(), config.Network{
		Hosts: []string{"deploy@web1", "deploy@web2"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"deploy@web1", "deploy@web2"}, hosts)
}

func TestResolver_InventoryAppendsWithoutDedup(t *testing.T) {
	r := NewResolver(env.FromMap(nil), logger.NewBufferLogger())

	hosts, err := r.Resolve(context.Background(), config.Network{
		Hosts:     []string{"deploy@web1"},
		Inventory: `printf '  deploy@web2  \n\n deploy@web1\n'`,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"deploy@web1", "deploy@web2", "deploy@web1"}, hosts)
}

func TestResolver_InventorySeesOnlyMergedEnv(t *testing.T) {
	t.Setenv("SUP_TEST_LEAK", "leaked")

	e := env.FromMap(map[string]string{
		"PATH":   "/usr/bin:/bin",
		"REGION": "eu",
	})
	r := NewResolver(e, nil)

	hosts, err := r.Resolve(context.Background(), config.Network{
		Inventory: `echo "deploy@$REGION-1"; echo "deploy@${SUP_TEST_LEAK:-none}"`,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"deploy@eu-1", "deploy@none"}, hosts)
}

func TestResolver_InventoryFailure(t *testing.T) {
	r := NewResolver(env.FromMap(map[string]string{"PATH": "/usr/bin:/bin"}), nil)

	_, err := r.Resolve(context.Background(), config.Network{
		Hosts:     []string{"deploy@web1"},
		Inventory: "echo 'cloud api unreachable' >&2; exit 3",
	})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "Inventory command failed")
	assert.Contains(t, err.Error(), "cloud api unreachable")
}

func TestParseInventory(t *testing.T) {
	assert.Nil(t, ParseInventory(nil))
	assert.Equal(t, []string{"a@b", "c@d"}, ParseInventory([]byte("a@b\r\n\t\nc@d")))
}
