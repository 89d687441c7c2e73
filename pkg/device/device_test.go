package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	constant "github.com/izawa-yuka/uruoi/pkg/common"
)

func TestFileProviderStableID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	provider := NewFileProvider(path)
	id := provider.CurrentDeviceID()
	require.NotEmpty(t, id)

	assert.Equal(t, id, provider.CurrentDeviceID())

	// a fresh provider on the same path reads the persisted id
	again := NewFileProvider(path)
	assert.Equal(t, id, again.CurrentDeviceID())
}

func TestFileProviderDistinctPathsDistinctIDs(t *testing.T) {
	dir := t.TempDir()

	first := NewFileProvider(filepath.Join(dir, "a"))
	second := NewFileProvider(filepath.Join(dir, "b"))

	assert.NotEqual(t, first.CurrentDeviceID(), second.CurrentDeviceID())
}

func TestFileProviderEnvOverride(t *testing.T) {
	t.Setenv(constant.EnvKeyUruoiDeviceID, "device-from-env")

	provider := NewFileProvider(filepath.Join(t.TempDir(), "device_id"))
	assert.Equal(t, "device-from-env", provider.CurrentDeviceID())

	// override leaves no file behind
	_, err := os.Stat(filepath.Join(t.TempDir(), "device_id"))
	assert.True(t, os.IsNotExist(err))
}

func TestStaticProvider(t *testing.T) {
	assert.Equal(t, "device-a", StaticProvider("device-a").CurrentDeviceID())
}
