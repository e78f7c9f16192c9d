package model

import "time"

// Principal is the bearer of a validated API token
type Principal struct {
	Subject   string    `json:"subject"`
	NodeID    string    `json:"nodeId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
