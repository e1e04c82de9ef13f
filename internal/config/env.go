package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Environment lists the variables that override the config file.
type Environment struct {
	StoreDir       string        `env:"CERTKEEPER_STORE"`
	TargetStoreDir string        `env:"CERTKEEPER_TARGET_STORE"`
	VHostGlobs     []string      `env:"CERTKEEPER_VHOSTS" envSeparator:","`
	Backend        string        `env:"CERTKEEPER_BACKEND"`
	IssuerTag      string        `env:"CERTKEEPER_ISSUER_TAG"`
	ProxyTag       string        `env:"CERTKEEPER_PROXY_TAG"`
	LogLevel       string        `env:"CERTKEEPER_LOG_LEVEL"`
	Period         time.Duration `env:"CERTKEEPER_PERIOD"`
	Email          string        `env:"EMAIL"`
	Staging        string        `env:"STAGING"`
	SMTPHost       string        `env:"SMTP_HOST"`
	SMTPPort       int           `env:"SMTP_PORT"`
	SMTPUsername   string        `env:"SMTP_USERNAME"`
	SMTPPassword   string        `env:"SMTP_PASSWORD"`
	MailFrom       string        `env:"MAIL_FROM"`
	MailTo         string        `env:"MAIL_TO"`
}

// loadDotEnv loads path into the process environment if it exists.
// Variables already set are not overridden.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays every set environment variable onto c.
func (c *Config) applyEnv() error {
	e, err := env.ParseAs[Environment]()
	if err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	setString(&c.StoreDir, e.StoreDir)
	setString(&c.TargetStoreDir, e.TargetStoreDir)
	setString(&c.Backend, e.Backend)
	setString(&c.IssuerTag, e.IssuerTag)
	setString(&c.ProxyTag, e.ProxyTag)
	setString(&c.LogLevel, e.LogLevel)
	setString(&c.Email, e.Email)
	setString(&c.Mail.Host, e.SMTPHost)
	setString(&c.Mail.Username, e.SMTPUsername)
	setString(&c.Mail.Password, e.SMTPPassword)
	setString(&c.Mail.From, e.MailFrom)
	setString(&c.Mail.To, e.MailTo)

	if len(e.VHostGlobs) > 0 {
		c.VHostGlobs = e.VHostGlobs
	}
	if e.Period > 0 {
		c.Schedule.Period = Duration(e.Period)
	}
	if e.SMTPPort > 0 {
		c.Mail.Port = e.SMTPPort
	}
	if e.Staging != "" {
		c.Staging = parseFlag(e.Staging)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseFlag treats any non-boolean, non-empty value as true.
func parseFlag(v string) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}
