package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"strings"
)

const encPrefix = "enc:"

// fieldCipher seals individual column values with AES-GCM. A nil cipher
// leaves values untouched, which is how the store runs without a data key.
type fieldCipher struct {
	gcm cipher.AEAD
}

func newFieldCipher(key string) (*fieldCipher, error) {
	if key == "" {
		return nil, nil
	}
	sum := sha256.Sum256([]byte("enc:" + key))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &fieldCipher{gcm: gcm}, nil
}

func (c *fieldCipher) Seal(value string) (string, error) {
	if c == nil || value == "" || strings.HasPrefix(value, encPrefix) {
		return value, nil
	}
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := c.gcm.Seal(nil, nonce, []byte(value), nil)
	return encPrefix + base64.RawStdEncoding.EncodeToString(nonce) + ":" + base64.RawStdEncoding.EncodeToString(sealed), nil
}

func (c *fieldCipher) Open(value string) (string, error) {
	if !strings.HasPrefix(value, encPrefix) {
		return value, nil
	}
	if c == nil {
		return "", errors.New("encrypted value but no data key configured")
	}
	nonceText, sealedText, ok := strings.Cut(strings.TrimPrefix(value, encPrefix), ":")
	if !ok {
		return "", errors.New("invalid encrypted payload")
	}
	nonce, err := base64.RawStdEncoding.DecodeString(nonceText)
	if err != nil {
		return "", err
	}
	sealed, err := base64.RawStdEncoding.DecodeString(sealedText)
	if err != nil {
		return "", err
	}
	plain, err := c.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
