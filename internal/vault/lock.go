package vault

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	nerrors "github.com/notedex/notedex/internal/errors"
)

const lockFileName = "vault.lock"

// vaultLock guards a vault's data directory against concurrent writers
// from other processes.
type vaultLock struct {
	fl *flock.Flock
}

// acquireLock takes an exclusive lock on the vault's data directory.
// It fails immediately when another process holds the lock.
func acquireLock(root string) (*vaultLock, error) {
	dataDir := filepath.Join(root, DataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, nerrors.New(nerrors.ErrCodeVaultInvalid,
			"cannot create vault data directory", err)
	}

	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, nerrors.New(nerrors.ErrCodeVaultLocked,
			"cannot acquire vault lock", err)
	}
	if !locked {
		return nil, nerrors.New(nerrors.ErrCodeVaultLocked,
			"vault is locked by another process", nil).
			WithDetail("lock_file", fl.Path())
	}
	return &vaultLock{fl: fl}, nil
}

func (l *vaultLock) release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
