package machineid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/denisbrodbeck/machineid"

	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const appID = "dirtidy"

type hardwareMachineID struct{}

func NewHardwareMachineID() outbound.MachineIDService {
	return &hardwareMachineID{}
}

// GetMachineID returns an app specific hash of the host id, so the raw id never leaves the host.
// Hosts without a machine id (minimal containers) fall back to the hostname.
func (h *hardwareMachineID) GetMachineID() (string, error) {
	id, err := machineid.ProtectedID(appID)
	if err == nil {
		return id, nil
	}

	hostname, herr := os.Hostname()
	if herr != nil {
		return "", fmt.Errorf("machine id unavailable: %w", err)
	}

	hash := sha256.Sum256([]byte(appID + ":" + hostname))
	return hex.EncodeToString(hash[:]), nil
}
