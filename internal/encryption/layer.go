package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// KeySize is the AES-256 key size in bytes.
const KeySize = 32

// Layer encrypts and decrypts byte buffers under a key generated at construction.
// The key never leaves the Layer. A Layer is safe for concurrent use.
type Layer struct {
	// key is kept for the lifetime of the layer only
	key [KeySize]byte

	// block is the AES cipher expanded from key
	block cipher.Block

	// random supplies IVs
	random io.Reader
}

// NewLayer generates a fresh key from random. A nil random source uses crypto/rand.
func NewLayer(random io.Reader) (*Layer, error) {
	if random == nil {
		random = rand.Reader
	}

	layer := &Layer{random: random}

	if _, err := io.ReadFull(random, layer.key[:]); err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	block, err := aes.NewCipher(layer.key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	layer.block = block

	return layer, nil
}

// EncryptedSize returns the framed length for a plaintext of n bytes.
func EncryptedSize(n int) int {
	return aes.BlockSize + (n/aes.BlockSize+1)*aes.BlockSize
}

// Encrypt pads plaintext and encrypts it under a new random IV, returning IV || ciphertext.
func (l *Layer) Encrypt(plaintext []byte) ([]byte, error) {
	iv, err := l.newIV()
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)

	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)

	cipher.NewCBCEncrypter(l.block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return out, nil
}

// Decrypt splits framed into IV and ciphertext, decrypts, and strips the padding.
// Every failure wraps ErrDecryption. Nothing is returned unless the padding checks out.
func (l *Layer) Decrypt(framed []byte) ([]byte, error) {
	if len(framed) < aes.BlockSize {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, ErrTooShort)
	}

	iv := framed[:aes.BlockSize]
	ciphertext := framed[aes.BlockSize:]

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, ErrInvalidBlockSize)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(l.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	return unpadded, nil
}

func (l *Layer) newIV() ([]byte, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(l.random, iv); err != nil {
		return nil, fmt.Errorf("generating IV: %w", err)
	}

	return iv, nil
}
