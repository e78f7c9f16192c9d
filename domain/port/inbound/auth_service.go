package inbound

import (
	"time"

	"github.com/ajkula/dirtidy/domain/model"
)

// TokenService issues and checks the bearer tokens of the control API
type TokenService interface {
	GenerateToken(subject string, issuedAt time.Time) (string, error)
	ValidateToken(token string) (*model.Principal, error)
}
