// internal/vault/vault_test.go
//
// Unit-tests for the pieces that run without a Vault server.
//
// Run: go test ./internal/vault -v

package vault

import (
	"context"
	"testing"
)

func TestSplitMount(t *testing.T) {
	cases := []struct{ in, mount, rel string }{
		{"secret/data/db", "secret", "data/db"},
		{"kv/alnashra", "kv", "alnashra"},
		{"solo", "solo", ""},
	}
	for _, c := range cases {
		mount, rel := splitMount(c.in)
		if mount != c.mount || rel != c.rel {
			t.Errorf("splitMount(%q) = (%q, %q), want (%q, %q)",
				c.in, mount, rel, c.mount, c.rel)
		}
	}
}

func TestGetKVRejectsEmptyArgs(t *testing.T) {
	c := &Client{}
	if _, err := c.GetKV(context.Background(), "", "key"); err == nil {
		t.Error("empty path accepted")
	}
	if _, err := c.GetKV(context.Background(), "kv/db", ""); err == nil {
		t.Error("empty key accepted")
	}
}

func TestConfigured(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")
	if Configured() {
		t.Error("Configured() = true with empty VAULT_ADDR")
	}
	t.Setenv("VAULT_ADDR", "https://vault.local:8200")
	if !Configured() {
		t.Error("Configured() = false with VAULT_ADDR set")
	}
}
