package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	kdfIterations = 100_000
	keyLen        = 32
	saltLen       = 16
	ivLen         = 12
)

var (
	// ErrDecryptFailed covers both a wrong password and corrupted data.
	ErrDecryptFailed = errors.New("could not decrypt backup: wrong password or corrupted file")

	// ErrPasswordRequired is returned when importing an encrypted backup
	// without a password.
	ErrPasswordRequired = errors.New("backup is encrypted: password required")
)

// Envelope is the on-disk form of an encrypted backup.
type Envelope struct {
	Version   int    `json:"version"`
	Encrypted bool   `json:"encrypted"`
	Salt      string `json:"salt"`
	IV        string `json:"iv"`
	Data      string `json:"data"`
}

// Encrypt seals plain with a key derived from password.
func Encrypt(plain []byte, password string) (Envelope, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return Envelope{}, fmt.Errorf("generating salt: %w", err)
	}
	iv := make([]byte, ivLen)
	if _, err := rand.Read(iv); err != nil {
		return Envelope{}, fmt.Errorf("generating iv: %w", err)
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Version:   1,
		Encrypted: true,
		Salt:      base64.StdEncoding.EncodeToString(salt),
		IV:        base64.StdEncoding.EncodeToString(iv),
		Data:      base64.StdEncoding.EncodeToString(gcm.Seal(nil, iv, plain, nil)),
	}, nil
}

// Decrypt opens env with password. Every failure is ErrDecryptFailed.
func Decrypt(env Envelope, password string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	iv, err := base64.StdEncoding.DecodeString(env.IV)
	if err != nil || len(iv) != ivLen {
		return nil, ErrDecryptFailed
	}
	data, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	gcm, err := newGCM(password, salt)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	plain, err := gcm.Open(nil, iv, data, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

func newGCM(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}
	return gcm, nil
}
