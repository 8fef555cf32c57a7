package encryptor

// Password encrypts and decrypts password strings with any Encryptor.
type Password struct {
	enc Encryptor
}

func NewPassword(enc Encryptor) *Password {
	return &Password{enc: enc}
}

func (p *Password) EncryptPassword(password string) (string, error) {
	return p.enc.Encrypt([]byte(password))
}

func (p *Password) DecryptPassword(encrypted string) (string, error) {
	plaintext, err := p.enc.Decrypt(encrypted)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
