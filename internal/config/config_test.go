package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/sawiku",
		LogDir:   "/home/user/.local/share/sawiku/log",
		Timezone: "Asia/Makassar",
		Server: ServerConfig{
			Listen:         ":9000",
			SessionSecret:  "s3cret",
			SecureCookies:  true,
			MaxUploadBytes: 1024,
		},
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/sawiku/db"},
		BlobStore: BlobStoreConfig{
			Type:       "s3",
			S3Bucket:   "sawiku-photos",
			S3Prefix:   "prod",
			S3Region:   "ap-southeast-3",
			S3Endpoint: "http://localhost:9000",
		},
		Analyzer: AnalyzerConfig{Type: "gemini", Model: "gemini-2.0-flash", APIKeyEnv: "KEY"},
		Encryption: EncryptionConfig{
			PublicKeyPath:  "/home/user/.local/share/sawiku/keys/sawiku.pub",
			PrivateKeyPath: "/home/user/.local/share/sawiku/keys/sawiku.key",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Timezone != "Asia/Makassar" {
		t.Errorf("Timezone = %q, want %q", got.Timezone, "Asia/Makassar")
	}
	if got.Server != original.Server {
		t.Errorf("Server = %+v, want %+v", got.Server, original.Server)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.BlobStore != original.BlobStore {
		t.Errorf("BlobStore = %+v, want %+v", got.BlobStore, original.BlobStore)
	}
	if got.Analyzer != original.Analyzer {
		t.Errorf("Analyzer = %+v, want %+v", got.Analyzer, original.Analyzer)
	}
	if got.Encryption.PrivateKeyPath != original.Encryption.PrivateKeyPath {
		t.Errorf("Encryption.PrivateKeyPath = %q, want %q", got.Encryption.PrivateKeyPath, original.Encryption.PrivateKeyPath)
	}
}

func TestManager_Read_TaggedUnion(t *testing.T) {
	input := `
timezone = "Asia/Jakarta"

[blobstore]
type = "filesystem"
fs_root = "/srv/sawiku/blobs"

[analyzer]
type = "stub"
`
	m := &Manager{}
	got, err := m.Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.BlobStore.Type != "filesystem" || got.BlobStore.FSRoot != "/srv/sawiku/blobs" {
		t.Errorf("BlobStore = %+v", got.BlobStore)
	}
	if got.BlobStore.S3Bucket != "" {
		t.Errorf("S3Bucket = %q, want empty", got.BlobStore.S3Bucket)
	}
	if got.Analyzer.Type != "stub" {
		t.Errorf("Analyzer.Type = %q, want stub", got.Analyzer.Type)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/sawiku", "secret")

	if cfg.BaseDir != "/data/sawiku" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/sawiku")
	}
	if cfg.LogDir != "/data/sawiku/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/sawiku/log")
	}
	if cfg.Server.SessionSecret != "secret" {
		t.Errorf("Server.SessionSecret = %q, want %q", cfg.Server.SessionSecret, "secret")
	}
	if cfg.Database.DataDir != "/data/sawiku/db" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/sawiku/db")
	}
	if cfg.BlobStore.FSRoot != "/data/sawiku/blobs" {
		t.Errorf("BlobStore.FSRoot = %q, want %q", cfg.BlobStore.FSRoot, "/data/sawiku/blobs")
	}
	if cfg.Encryption.PublicKeyPath != "/data/sawiku/keys/sawiku.pub" {
		t.Errorf("Encryption.PublicKeyPath = %q, want %q", cfg.Encryption.PublicKeyPath, "/data/sawiku/keys/sawiku.pub")
	}
	if cfg.Timezone != DefaultTimezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, DefaultTimezone)
	}
}

func TestConfig_Location(t *testing.T) {
	t.Run("default zone", func(t *testing.T) {
		loc, err := (&Config{}).Location()
		if err != nil {
			t.Fatalf("Location() error = %v", err)
		}
		if loc.String() != DefaultTimezone {
			t.Errorf("Location() = %s, want %s", loc, DefaultTimezone)
		}
	})

	t.Run("unknown zone", func(t *testing.T) {
		if _, err := (&Config{Timezone: "Mars/Olympus"}).Location(); err == nil {
			t.Fatal("Location() expected error for unknown zone")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sawiku.toml")

		if err := Init(path, NewConfig(dir, "s")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("config file not created: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("config file mode = %o, want 600", perm)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sawiku.toml")
		cfg := NewConfig(dir, "s")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "sawiku.toml")
		cfg := NewConfig(dir, "read-test")
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Server.SessionSecret != "read-test" {
			t.Errorf("Server.SessionSecret = %q, want %q", got.Server.SessionSecret, "read-test")
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want memory", got.Database.Type)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/sawiku.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := (&Config{LogLevel: tt.level}).Level()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Level() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}
