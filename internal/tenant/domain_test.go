// internal/tenant/domain_test.go
//
// Unit-tests for tenant key normalization, validation, and schema naming.

package tenant

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("  ACME-News "); got != "acme-news" {
		t.Fatalf("Normalize = %q, want acme-news", got)
	}
}

func TestValidateDomain(t *testing.T) {
	reserved := reservedSet([]string{"CDN"})

	valid := []string{"a", "pub1", "acme-news", "a1-b2", strings.Repeat("x", 50)}
	for _, d := range valid {
		if err := ValidateDomain(d, reserved); err != nil {
			t.Errorf("ValidateDomain(%q) = %v, want nil", d, err)
		}
	}

	invalid := []string{
		"",
		strings.Repeat("x", 51),
		"-abc",
		"abc-",
		"a_b",
		"UPPER",
		"dots.inside",
		"back`tick",
		"main",
		"www",
		"api",
		"admin",
		"auth",
		"cdn", // configured reserved, folded lowercase
	}
	for _, d := range invalid {
		if err := ValidateDomain(d, reserved); !errors.Is(err, ErrInvalidDomain) {
			t.Errorf("ValidateDomain(%q) = %v, want ErrInvalidDomain", d, err)
		}
	}
}

func TestSchemaName(t *testing.T) {
	if got := SchemaName("acme"); got != "tenant_acme" {
		t.Fatalf("SchemaName = %q, want tenant_acme", got)
	}
}
