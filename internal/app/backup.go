package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sawiku/internal/database"
)

// backupPrefix holds the encrypted database snapshots in the blob store.
const backupPrefix = "backups/"

// ErrBackupKeysMissing is returned when a backup is requested before keygen.
var ErrBackupKeysMissing = errors.New("backup keys not configured: run 'sawiku backup keygen'")

// CreateBackup snapshots the database, encrypts the snapshot to the backup
// public key and stores it as backups/<operation-id>.db.age. It returns the key.
func (a *App) CreateBackup(ctx context.Context) (string, error) {
	if !a.encryptor.IsConfigured() {
		return "", ErrBackupKeysMissing
	}

	// Snapshot the DB to a temp file
	tmpDir, err := os.MkdirTemp("", "sawiku-backup-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for db backup: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	snapshot := filepath.Join(tmpDir, "sawiku.db")
	if err := a.db.BackupTo(ctx, snapshot); err != nil {
		return "", err
	}

	encrypted, err := os.Create(filepath.Join(tmpDir, "sawiku.db.age"))
	if err != nil {
		return "", fmt.Errorf("creating encrypted backup file: %w", err)
	}
	defer encrypted.Close()

	if err := a.encryptFile(snapshot, encrypted); err != nil {
		return "", err
	}

	info, err := encrypted.Stat()
	if err != nil {
		return "", fmt.Errorf("stat encrypted backup: %w", err)
	}
	if _, err := encrypted.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewinding encrypted backup: %w", err)
	}

	key := backupPrefix + a.op.ID + ".db.age"
	if err := a.blobs.Put(ctx, key, encrypted, info.Size(), "application/octet-stream"); err != nil {
		return "", fmt.Errorf("uploading backup: %w", err)
	}

	a.logger.Info("database backup created", "key", key, "bytes", info.Size())
	return key, nil
}

func (a *App) encryptFile(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening db snapshot: %w", err)
	}
	defer f.Close()

	if err := a.encryptor.Encrypt(f, w); err != nil {
		return fmt.Errorf("encrypting db snapshot: %w", err)
	}
	return nil
}

// ListBackups returns the keys of all stored backups, oldest first.
func (a *App) ListBackups(ctx context.Context) ([]string, error) {
	keys, err := a.blobs.List(ctx, backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %w", err)
	}
	return keys, nil
}

// RestoreBackup fetches the backup stored under key, decrypts it with the
// private key unlocked by passphrase and writes the database to destPath.
// destPath must not exist; the restored file is checked to be a readable
// sawiku database before it is moved into place.
func (a *App) RestoreBackup(ctx context.Context, key, passphrase, destPath string) error {
	if !strings.HasPrefix(key, backupPrefix) {
		key = backupPrefix + key
	}
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("restore destination %s already exists", destPath)
	}

	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking backup key: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(destPath), ".sawiku-restore-*")
	if err != nil {
		return fmt.Errorf("creating temp dir for restore: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	encrypted, err := os.Create(filepath.Join(tmpDir, "backup.db.age"))
	if err != nil {
		return fmt.Errorf("creating download file: %w", err)
	}
	defer encrypted.Close()

	if err := a.blobs.Get(ctx, key, encrypted); err != nil {
		return fmt.Errorf("downloading backup %s: %w", key, err)
	}
	if _, err := encrypted.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding backup: %w", err)
	}

	restored := filepath.Join(tmpDir, "sawiku.db")
	out, err := os.OpenFile(restored, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("creating restored database: %w", err)
	}
	if err := dc.Decrypt(encrypted, out); err != nil {
		out.Close()
		return fmt.Errorf("decrypting backup: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing restored database: %w", err)
	}

	if err := verifyDatabase(restored); err != nil {
		return err
	}
	if err := os.Rename(restored, destPath); err != nil {
		return fmt.Errorf("moving restored database into place: %w", err)
	}

	a.logger.Info("database backup restored", "key", key, "path", destPath)
	return nil
}

func verifyDatabase(path string) error {
	db, err := database.NewSQLiteDatabase(path)
	if err != nil {
		return fmt.Errorf("opening restored database: %w", err)
	}
	defer db.Close()

	status, err := db.MigrationStatus()
	if err != nil {
		return fmt.Errorf("reading restored database schema: %w", err)
	}
	if status.Dirty || status.Version == 0 {
		return fmt.Errorf("restored database has no usable schema (version %d, dirty %v)", status.Version, status.Dirty)
	}
	return nil
}
