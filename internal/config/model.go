// internal/config/model.go
//
// Typed configuration model for the platform.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                     – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `NASHRA_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs—only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the two DSNs the platform needs: the main (shared) schema
// pool, and the template used to open per-tenant pools.  TenantDSN must
// carry exactly one %s verb, which the provisioner fills with the tenant's
// schema name.  Secrets may be written as `vault:mount/path#key` and are
// resolved before unmarshal.
type Database struct {
	MainDSN   string `koanf:"main_dsn"   validate:"required"`
	TenantDSN string `koanf:"tenant_dsn" validate:"required,dsn_template"`
}

//
// Tenancy section
//

// Tenancy configures the resolver and the per-tenant pool cache.  Reserved
// holds first labels that always map to the main tenant and may never be
// provisioned as tenant domains.
type Tenancy struct {
	RootDomain string   `koanf:"root_domain" validate:"required,fqdn"`
	Reserved   []string `koanf:"reserved"`
	DevMode    bool     `koanf:"dev_mode"`
	MaxPools   int      `koanf:"max_pools"`
}

//
// Auth section
//

// Auth holds the JWT signing secret and token lifetime in hours.
type Auth struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=32"`
	TokenTTL  int    `koanf:"token_ttl_hours"`

	// Root credentials seed the first admin account on boot.  Optional:
	// an already-seeded deployment can drop them from config entirely.
	RootEmail    string `koanf:"root_email"    validate:"omitempty,email"`
	RootPassword string `koanf:"root_password" validate:"required_with=RootEmail,omitempty,min=8"`
}

//
// Geo section (optional)
//

// Geo points at a local GeoLite2-City database.  Empty path disables
// geo enrichment of the access log.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or NASHRA_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // NASHRA_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Tenancy  Tenancy  `koanf:"tenancy"`
	Auth     Auth     `koanf:"auth"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
