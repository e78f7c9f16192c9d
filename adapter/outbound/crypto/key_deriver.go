package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/argon2"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

var signingSalt = []byte("dirtidy-api-signing-key")

type Argon2KeyDeriver struct{}

func NewKeyDeriver() outbound.KeyDeriver {
	return &Argon2KeyDeriver{}
}

// DeriveSigningKey stretches the machine id into a 32 byte HMAC key
func (d *Argon2KeyDeriver) DeriveSigningKey(machineID string) []byte {
	// Argon2id - OWASP 2024
	return argon2.IDKey([]byte(machineID), signingSalt, 1, 64*1024, 4, 32)
}

// NodeID is a short printable identifier for logs and the health endpoint
func (d *Argon2KeyDeriver) NodeID(machineID string) string {
	hash := sha256.Sum256([]byte(machineID + "dirtidy-node"))
	return "node-" + hex.EncodeToString(hash[:4])
}
