package encryption

import "errors"

var (
	// ErrDecryption is wrapped by every failure to decrypt framed data.
	ErrDecryption = errors.New("decryption failed")
	// ErrTooShort is returned when the data cannot even hold an IV.
	ErrTooShort = errors.New("data shorter than the initialization vector")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when the ciphertext is empty or not aligned with the AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a positive multiple of block size")
)
