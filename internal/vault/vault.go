// internal/vault/vault.go
//
// Vault client wrapper.
//
// Context
// -------
// The platform keeps database credentials out of flat files: any config
// value written as `vault:mount/path#key` is resolved through this client
// before the config tree is unmarshalled.  Resolution happens once at
// boot, so the wrapper stays small: no lease renewal, no caching, just
// KV-v2 reads with the environment-driven SDK setup.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New()              // during boot.
//  2. val, err := cli.GetKV(ctx, path, key)
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api *vault.Client
}

// Configured reports whether the process environment points at a Vault
// server.  main() skips client construction entirely when it does not.
func Configured() bool { return os.Getenv("VAULT_ADDR") != "" }

// New constructs a Vault client from the environment.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token).
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{api: apiCli}, nil
}

// GetKV fetches a single key from a KV-v2 secret at mount/path.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	return sval, nil
}

func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
