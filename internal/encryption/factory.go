package encryption

import (
	"fmt"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

// NewEncryptorFromConfig creates the backup Encryptor named by the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (sawi.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
