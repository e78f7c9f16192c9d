package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
)

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	NodeID string `json:"node"`
	jwt.RegisteredClaims
}

type tokenService struct {
	secret    []byte
	nodeID    string
	jwtExpiry time.Duration
}

// NewTokenService signs HS256 tokens bound to nodeID
func NewTokenService(secret []byte, nodeID string, jwtExpiryMinutes int) inbound.TokenService {
	if jwtExpiryMinutes <= 0 {
		jwtExpiryMinutes = 60
	}
	return &tokenService{
		secret:    secret,
		nodeID:    nodeID,
		jwtExpiry: time.Duration(jwtExpiryMinutes) * time.Minute,
	}
}

func (s *tokenService) GenerateToken(subject string, issuedAt time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	claims := tokenClaims{
		NodeID: s.nodeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "dirtidy",
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.jwtExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) ValidateToken(tokenString string) (*model.Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("dirtidy"),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.NodeID != s.nodeID {
		return nil, ErrInvalidToken
	}

	return &model.Principal{
		Subject:   claims.Subject,
		NodeID:    claims.NodeID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
