package key

import (
	"crypto/rsa"
)

// Pair holds parsed RSA key material. The public key is not required to
// belong to the private key.
type Pair struct {
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
}

// Size returns the modulus size of the public key in bytes.
func (p *Pair) Size() int {
	return p.PublicKey.Size()
}
