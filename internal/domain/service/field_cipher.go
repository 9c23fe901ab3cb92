package service

// FieldCipher encrypts and decrypts a single sensitive string field for
// storage at rest. Implementations must generate a fresh IV per Encrypt
// call and fail closed on malformed or tampered input.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}
