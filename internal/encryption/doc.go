// Package encryption provides the AES-256-CBC layer of the cipher.
// A Layer owns a random 32-byte key for its lifetime and frames every message
// as a fresh 16-byte IV followed by the PKCS#7 padded CBC ciphertext.
package encryption
