package util

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Cipher performs deterministic AES-256-CBC encryption under a fixed key and
// IV supplied once at startup. Determinism is the point: ciphertext doubles
// as the whitelist lookup key, so identical plaintext must always produce
// identical output. Nothing ever needs decrypting.
type Cipher struct {
	block cipher.Block
	iv    []byte
}

// NewCipher parses the hex-encoded key (32 bytes) and IV (16 bytes) and
// builds the AES block cipher once for the process lifetime.
func NewCipher(hexKey, hexIV string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode cipher key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("cipher key must be 32 bytes (64 hex chars), got %d", len(key))
	}

	iv, err := hex.DecodeString(hexIV)
	if err != nil {
		return nil, fmt.Errorf("decode cipher iv: %w", err)
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("cipher iv must be %d bytes (%d hex chars), got %d",
			aes.BlockSize, aes.BlockSize*2, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	return &Cipher{block: block, iv: iv}, nil
}

// Encrypt returns the base64-encoded AES-256-CBC ciphertext of plaintext
// with PKCS#7 padding.
func (c *Cipher) Encrypt(plaintext string) string {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))

	enc := cipher.NewCBCEncrypter(c.block, c.iv)
	enc.CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}
