package tlscore

import (
	"fmt"
	"io"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/go-i2p/tlscore/logging"
)

// A Config provides the details necessary to sign and verify handshake
// signatures. It is never modified by this package, and can be reused.
type Config struct {
	// Backend performs the raw RSA operations. If nil, DefaultBackend is used.
	Backend Backend

	// Random is the source for salts and blinding values. If nil,
	// crypto/rand.Reader is used.
	Random io.Reader

	// Compatibility decides which key types each signature algorithm may be
	// used with. If nil, DefaultCompatibilityTable is used.
	Compatibility CompatibilityTable

	// Schemes restricts the registered schemes that SelectScheme will pick.
	// If empty, every registered scheme is enabled. Sign and Verify accept
	// any scheme the caller passes explicitly.
	Schemes []SignatureScheme

	// Logger receives debug records for rejected operations. If nil, records
	// are discarded.
	Logger logging.Logger
}

// FileConfig is the on-disk and environment form of Config.
type FileConfig struct {
	// LegacyMode selects LegacyCompatibilityTable. The zero value keeps
	// DefaultCompatibilityTable.
	LegacyMode bool `yaml:"legacy_mode" json:"legacy_mode" toml:"legacy_mode" env:"TLSCORE_LEGACY_MODE"`

	// AllowPKCS1OnRSAPSSKeys permits PKCS#1 v1.5 with RSA_PSS tagged keys.
	AllowPKCS1OnRSAPSSKeys bool `yaml:"allow_pkcs1_on_rsa_pss_keys" json:"allow_pkcs1_on_rsa_pss_keys" toml:"allow_pkcs1_on_rsa_pss_keys" env:"TLSCORE_ALLOW_PKCS1_ON_RSA_PSS_KEYS"`

	// DisableRSAPSS builds a backend without PSS support.
	DisableRSAPSS bool `yaml:"disable_rsa_pss" json:"disable_rsa_pss" toml:"disable_rsa_pss" env:"TLSCORE_DISABLE_RSA_PSS"`

	// SignatureSchemes lists enabled scheme names in preference order.
	SignatureSchemes []string `yaml:"signature_schemes" json:"signature_schemes" toml:"signature_schemes" env:"TLSCORE_SIGNATURE_SCHEMES" env-separator:","`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level" toml:"log_level" env:"TLSCORE_LOG_LEVEL" env-default:"info"`
}

// LoadConfig reads a YAML, JSON, TOML or .env file and overlays the
// TLSCORE_* environment variables.
func LoadConfig(path string) (Config, error) {
	var fc FileConfig
	if err := cleanenv.ReadConfig(path, &fc); err != nil {
		return Config{}, fmt.Errorf("tlscore: read config %s: %w", path, err)
	}
	return fc.Build(os.Stderr)
}

// ConfigFromEnv builds a Config from TLSCORE_* environment variables only.
func ConfigFromEnv() (Config, error) {
	var fc FileConfig
	if err := cleanenv.ReadEnv(&fc); err != nil {
		return Config{}, fmt.Errorf("tlscore: read environment: %w", err)
	}
	return fc.Build(os.Stderr)
}

// Build turns the file form into a Config whose logger writes to logOut.
func (fc FileConfig) Build(logOut io.Writer) (Config, error) {
	table := DefaultCompatibilityTable()
	if fc.LegacyMode {
		table = LegacyCompatibilityTable()
	}
	if fc.AllowPKCS1OnRSAPSSKeys {
		table.Set(SignatureRSAPKCS1, KeyTypeRSAPSS, true)
	}

	var schemes []SignatureScheme
	for _, name := range fc.SignatureSchemes {
		s, ok := LookupSignatureSchemeByName(name)
		if !ok {
			return Config{}, fmt.Errorf("tlscore: unknown signature scheme %q", name)
		}
		schemes = append(schemes, s)
	}

	cfg := Config{
		Compatibility: table,
		Schemes:       schemes,
		Logger:        logging.NewText(logOut, fc.LogLevel),
	}
	if fc.DisableRSAPSS {
		cfg.Backend = NewBackend(false)
	}
	return cfg, nil
}
