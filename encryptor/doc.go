// Package encryptor provides symmetric and RSA encryption behind the
// Encryptor interface. Ciphertext is returned as text in one of the Output
// encodings so it can travel over text-only channels.
package encryptor
