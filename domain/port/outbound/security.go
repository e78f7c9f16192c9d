package outbound

// MachineIDService identifies the host the organizer runs on
type MachineIDService interface {
	GetMachineID() (string, error)
}

// KeyDeriver turns a host identity into stable key material, so the server
// and the CLI on the same host agree on a token signing key without sharing a file
type KeyDeriver interface {
	DeriveSigningKey(machineID string) []byte
	NodeID(machineID string) string
}
