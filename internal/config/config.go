package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ksyq12/certkeeper/internal/platform"
)

// Config represents the daemon configuration
type Config struct {
	StoreDir       string   `yaml:"store_dir" toml:"store_dir"`
	TargetStoreDir string   `yaml:"target_store_dir" toml:"target_store_dir"`
	Webroot        string   `yaml:"webroot" toml:"webroot"`
	VHostGlobs     []string `yaml:"vhost_globs" toml:"vhost_globs"`
	VHosts         []VHost  `yaml:"vhosts" toml:"vhosts"`
	Backend        string   `yaml:"backend" toml:"backend"` // docker, local
	IssuerTag      string   `yaml:"issuer_tag" toml:"issuer_tag"`
	ProxyTag       string   `yaml:"proxy_tag" toml:"proxy_tag"`
	Email          string   `yaml:"email" toml:"email"`
	Staging        bool     `yaml:"staging" toml:"staging"`
	LogLevel       string   `yaml:"log_level" toml:"log_level"`
	Policy         Policy   `yaml:"policy" toml:"policy"`
	Schedule       Schedule `yaml:"schedule" toml:"schedule"`
	Mail           Mail     `yaml:"mail" toml:"mail"`
	Assets         []Asset  `yaml:"assets" toml:"assets"`
}

// VHost is a virtual-host declaration given directly in the config file
// instead of in a proxy conf file.
type VHost struct {
	SSLCertificate string   `yaml:"ssl_certificate" toml:"ssl_certificate"`
	ServerNames    []string `yaml:"server_names" toml:"server_names"`
}

// Policy holds the issuance constants.
type Policy struct {
	ExpiryThresholdDays int    `yaml:"expiry_threshold_days" toml:"expiry_threshold_days"`
	RSAKeySize          int    `yaml:"rsa_key_size" toml:"rsa_key_size"`
	BootstrapDays       int    `yaml:"bootstrap_days" toml:"bootstrap_days"`
	BootstrapKeySize    int    `yaml:"bootstrap_key_size" toml:"bootstrap_key_size"`
	BootstrapSubject    string `yaml:"bootstrap_subject" toml:"bootstrap_subject"`
}

// Schedule holds the loop and proxy polling timings.
type Schedule struct {
	Period       Duration `yaml:"period" toml:"period"`
	ReadyPoll    Duration `yaml:"ready_poll" toml:"ready_poll"`
	ReadyTimeout Duration `yaml:"ready_timeout" toml:"ready_timeout"` // 0 waits forever
}

// Mail holds the SMTP transport and envelope settings.
type Mail struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
	TLSMode  string `yaml:"tls_mode" toml:"tls_mode"` // tls, starttls
	From     string `yaml:"from" toml:"from"`
	To       string `yaml:"to" toml:"to"`
	Subject  string `yaml:"subject" toml:"subject"`
}

// Enabled reports whether a mail transport is configured.
func (m Mail) Enabled() bool {
	return m.Host != ""
}

// Asset is a static TLS configuration file fetched into the store root.
type Asset struct {
	URL  string `yaml:"url" toml:"url"`
	File string `yaml:"file" toml:"file"`
}

// Backend names
const (
	BackendDocker = "docker"
	BackendLocal  = "local"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "/etc/certkeeper/certkeeper.yaml"

// DefaultAssets are the certbot nginx TLS options and DH parameters.
var DefaultAssets = []Asset{
	{
		URL:  "https://raw.githubusercontent.com/certbot/certbot/master/certbot-nginx/certbot_nginx/_internal/tls_configs/options-ssl-nginx.conf",
		File: "options-ssl-nginx.conf",
	},
	{
		URL:  "https://raw.githubusercontent.com/certbot/certbot/master/certbot/certbot/ssl-dhparams.pem",
		File: "ssl-dhparams.pem",
	},
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		StoreDir:       "/etc/letsencrypt",
		TargetStoreDir: "/etc/letsencrypt",
		Webroot:        "/var/www/certbot",
		Backend:        BackendDocker,
		IssuerTag:      "certbot/certbot",
		ProxyTag:       "nginx:1.19-alpine",
		Email:          "undefined@undefined.com",
		LogLevel:       "info",
		Policy: Policy{
			ExpiryThresholdDays: 10,
			RSAKeySize:          4096,
			BootstrapDays:       1,
			BootstrapKeySize:    1024,
			BootstrapSubject:    "/CN=localhost",
		},
		Schedule: Schedule{
			Period:    Duration(24 * time.Hour),
			ReadyPoll: Duration(time.Second),
		},
		Mail: Mail{
			Port:    465,
			TLSMode: "tls",
			From:    "mailer@example.com",
			To:      "recipient@example.com",
			Subject: "Certbot renewed certificates.",
		},
		Assets: append([]Asset(nil), DefaultAssets...),
	}
}

// Load reads the config file at path, then applies .env and environment
// overrides. An empty path reads DefaultPath if it exists and otherwise
// starts from defaults.
func Load(path string) (*Config, error) {
	cfg := New()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil || explicit {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if len(cfg.VHostGlobs) == 0 {
		cfg.VHostGlobs = platform.DetectVHostGlobs()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile decodes the file at path into c, picking TOML or YAML by extension.
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	default:
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that policy and schedule values are usable.
func (c *Config) Validate() error {
	if c.StoreDir == "" {
		return fmt.Errorf("store_dir cannot be empty")
	}
	if c.TargetStoreDir == "" {
		c.TargetStoreDir = c.StoreDir
	}
	switch c.Backend {
	case BackendDocker, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q (available: docker, local)", c.Backend)
	}
	if c.IssuerTag == "" || c.ProxyTag == "" {
		return fmt.Errorf("issuer_tag and proxy_tag cannot be empty")
	}
	if c.Policy.ExpiryThresholdDays <= 0 {
		return fmt.Errorf("policy.expiry_threshold_days must be positive")
	}
	if c.Policy.RSAKeySize <= 0 || c.Policy.BootstrapKeySize <= 0 {
		return fmt.Errorf("policy key sizes must be positive")
	}
	if c.Policy.BootstrapDays <= 0 {
		return fmt.Errorf("policy.bootstrap_days must be positive")
	}
	if c.Schedule.Period <= 0 {
		return fmt.Errorf("schedule.period must be positive")
	}
	if c.Schedule.ReadyPoll <= 0 {
		return fmt.Errorf("schedule.ready_poll must be positive")
	}
	if c.Schedule.ReadyTimeout < 0 {
		return fmt.Errorf("schedule.ready_timeout cannot be negative")
	}
	if c.Mail.Enabled() {
		if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
			return fmt.Errorf("mail.port must be between 1 and 65535")
		}
		if c.Mail.TLSMode != "tls" && c.Mail.TLSMode != "starttls" {
			return fmt.Errorf("mail.tls_mode must be tls or starttls")
		}
	}
	return nil
}
