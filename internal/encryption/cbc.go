package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

// EncryptStream encrypts everything read from r and writes IV || ciphertext to w.
// The output is byte-for-byte what Encrypt would produce for the same IV.
// It returns the number of bytes written.
func (l *Layer) EncryptStream(r io.Reader, w io.Writer) (int64, error) {
	iv, err := l.newIV()
	if err != nil {
		return 0, err
	}

	if _, err := w.Write(iv); err != nil {
		return 0, fmt.Errorf("writing IV: %w", err)
	}

	written := int64(len(iv))
	cbcMode := cipher.NewCBCEncrypter(l.block, iv)

	bufPtr := getBuffer()
	defer bufferPool.Put(bufPtr)

	buf := *bufPtr
	pending := make([]byte, 0, len(buf)+aes.BlockSize)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			// Encrypt all complete blocks, keep the tail for the next read or the padding.
			if full := len(pending) - len(pending)%aes.BlockSize; full > 0 {
				cbcMode.CryptBlocks(pending[:full], pending[:full])

				if _, err := w.Write(pending[:full]); err != nil {
					return written, fmt.Errorf("writing encrypted blocks: %w", err)
				}

				written += int64(full)
				pending = append(pending[:0], pending[full:]...)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return written, fmt.Errorf("reading input: %w", readErr)
		}
	}

	final := pkcs7Pad(pending, aes.BlockSize)
	cbcMode.CryptBlocks(final, final)

	if _, err := w.Write(final); err != nil {
		return written, fmt.Errorf("writing final encrypted block: %w", err)
	}

	return written + int64(len(final)), nil
}

// DecryptStream reads IV || ciphertext from r and writes the plaintext to w.
// The last block is held back until the padding is verified, but earlier blocks are
// written as they are decrypted: on error, whatever reached w must be discarded.
// It returns the number of plaintext bytes written.
//
//nolint:cyclop
func (l *Layer) DecryptStream(r io.Reader, w io.Writer) (int64, error) {
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(r, iv); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: %w", ErrDecryption, ErrTooShort)
		}

		return 0, fmt.Errorf("reading IV: %w", err)
	}

	cbcMode := cipher.NewCBCDecrypter(l.block, iv)

	bufPtr := getBuffer()
	defer bufferPool.Put(bufPtr)

	buf := *bufPtr
	pending := make([]byte, 0, len(buf)+aes.BlockSize)

	var written int64

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			// Keep between 1 and 16 bytes back: the final block is only handled at EOF.
			if len(pending) > aes.BlockSize {
				full := (len(pending) - 1) / aes.BlockSize * aes.BlockSize

				cbcMode.CryptBlocks(pending[:full], pending[:full])

				if _, err := w.Write(pending[:full]); err != nil {
					return written, fmt.Errorf("writing decrypted blocks: %w", err)
				}

				written += int64(full)
				pending = append(pending[:0], pending[full:]...)
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return written, fmt.Errorf("reading input: %w", readErr)
		}
	}

	if len(pending) != aes.BlockSize {
		return written, fmt.Errorf("%w: %w", ErrDecryption, ErrInvalidBlockSize)
	}

	cbcMode.CryptBlocks(pending, pending)

	unpadded, err := pkcs7Unpad(pending)
	if err != nil {
		return written, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	if _, err := w.Write(unpadded); err != nil {
		return written, fmt.Errorf("writing final decrypted block: %w", err)
	}

	return written + int64(len(unpadded)), nil
}
