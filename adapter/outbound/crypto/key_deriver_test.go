package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSigningKey(t *testing.T) {
	d := NewKeyDeriver()

	a := d.DeriveSigningKey("machine-a")
	assert.Len(t, a, 32)
	assert.Equal(t, a, d.DeriveSigningKey("machine-a"), "derivation must be deterministic")
	assert.NotEqual(t, a, d.DeriveSigningKey("machine-b"))
}

func TestNodeID(t *testing.T) {
	d := NewKeyDeriver()

	id := d.NodeID("machine-a")
	assert.Regexp(t, `^node-[0-9a-f]{8}$`, id)
	assert.Equal(t, id, d.NodeID("machine-a"))
}
