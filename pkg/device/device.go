// Package device provides the stable per-install identifier used to tag which
// device authored a record, so the UI can tell a family member's records from
// the user's own.
package device

import (
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	constant "github.com/izawa-yuka/uruoi/pkg/common"
)

type Provider interface {
	CurrentDeviceID() string
}

// FileProvider generates a device id on first use and persists it to a file,
// so the id survives restarts. URUOI_DEVICE_ID overrides the stored id,
// URUOI_DEVICE_ID_PATH overrides the storage location.
type FileProvider struct {
	path string

	mu sync.Mutex
	id string
}

func NewFileProvider(path string) *FileProvider {
	if path == "" {
		path = os.Getenv(constant.EnvKeyUruoiDeviceIDPath)
	}
	if path == "" {
		path = "device_id"
	}
	return &FileProvider{path: path}
}

func (p *FileProvider) CurrentDeviceID() string {
	if fromEnv := strings.TrimSpace(os.Getenv(constant.EnvKeyUruoiDeviceID)); fromEnv != "" {
		return fromEnv
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id
	}

	if data, err := os.ReadFile(p.path); err == nil {
		if saved := strings.TrimSpace(string(data)); saved != "" {
			p.id = saved
			return p.id
		}
	}

	p.id = uuid.NewString()
	// best effort: an unwritable path just means a fresh id next start
	_ = os.WriteFile(p.path, []byte(p.id+"\n"), 0o644)
	return p.id
}

// StaticProvider returns a fixed id; tests use it to simulate distinct devices.
type StaticProvider string

func (p StaticProvider) CurrentDeviceID() string { return string(p) }
