package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ajkula/dirtidy/adapter/inbound/rest"
	"github.com/ajkula/dirtidy/adapter/outbound/crypto"
	"github.com/ajkula/dirtidy/adapter/outbound/machineid"
	"github.com/ajkula/dirtidy/config"
	"github.com/ajkula/dirtidy/domain/port/inbound"
	"github.com/ajkula/dirtidy/domain/service"
)

type commandContext struct {
	configFlag *string
	serverFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, serverFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		serverFlag: serverFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			path = strings.TrimSpace(os.Getenv("DIRTIDY_CONFIG"))
		}

		cfg, err := config.LoadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// identity returns the node id and token signing key, derived from the host
// unless the configuration pins them
func (c *commandContext) identity() (string, []byte, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", nil, err
	}

	if cfg.General.NodeID != "" && cfg.HTTP.JWT.Secret != "" {
		return cfg.General.NodeID, []byte(cfg.HTTP.JWT.Secret), nil
	}

	machineID, err := machineid.NewHardwareMachineID().GetMachineID()
	if err != nil {
		return "", nil, fmt.Errorf("derive host identity: %w", err)
	}
	deriver := crypto.NewKeyDeriver()

	nodeID := cfg.General.NodeID
	if nodeID == "" {
		nodeID = deriver.NodeID(machineID)
	}
	secret := []byte(cfg.HTTP.JWT.Secret)
	if len(secret) == 0 {
		secret = deriver.DeriveSigningKey(machineID)
	}
	return nodeID, secret, nil
}

func (c *commandContext) tokenService() (inbound.TokenService, string, error) {
	nodeID, secret, err := c.identity()
	if err != nil {
		return nil, "", err
	}
	return service.NewTokenService(secret, nodeID, c.config.HTTP.JWT.ExpirationMinutes), nodeID, nil
}

func (c *commandContext) serverURL() string {
	if c.serverFlag != nil && strings.TrimSpace(*c.serverFlag) != "" {
		return strings.TrimSpace(*c.serverFlag)
	}
	return c.config.BaseURL()
}

// client mints a short lived token when the server requires one
func (c *commandContext) client() (*rest.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	token := ""
	if cfg.Security.EnableAuthentication {
		tokens, _, err := c.tokenService()
		if err != nil {
			return nil, err
		}
		token, err = tokens.GenerateToken("cli", time.Now())
		if err != nil {
			return nil, err
		}
	}
	return rest.NewClient(c.serverURL(), token), nil
}

func wrapClientError(err error, baseURL string) error {
	var opErr *net.OpError
	var urlErr *url.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to server: %s refused the connection; start it with `dirtidy serve`", baseURL)
	case errors.As(err, &opErr), errors.As(err, &urlErr):
		return fmt.Errorf("connect to server at %s: %w", baseURL, err)
	default:
		return err
	}
}
