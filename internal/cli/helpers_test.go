package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"github.com/ksyq12/certkeeper/internal/config"
	"github.com/ksyq12/certkeeper/internal/logger"
	"github.com/ksyq12/certkeeper/internal/output"
)

func init() {
	color.NoColor = true
}

// testConfig returns a config rooted in temp dirs with no remote assets.
func testConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	confDir := filepath.Join(dir, "conf.d")
	if err := os.MkdirAll(confDir, 0755); err != nil {
		t.Fatal(err)
	}

	cfg := config.New()
	cfg.StoreDir = filepath.Join(dir, "letsencrypt")
	cfg.TargetStoreDir = cfg.StoreDir
	cfg.VHostGlobs = []string{filepath.Join(confDir, "*.conf")}
	cfg.Assets = nil
	return cfg, confDir
}

func writeConf(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// captureOutput collects command output and resets global flags afterwards.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	output.SetOutput(&buf)
	logger.SetOutput(io.Discard)
	defer func() {
		output.SetOutput(nil)
		logger.SetOutput(nil)
		logger.SetLevel(logger.LevelInfo)
		jsonOutput = false
		assumeYes = false
		verbose = false
		configPath = ""
	}()
	f()
	return buf.String()
}

func serverBlock(cert string, names string) string {
	return "server {\n" +
		"    listen 443 ssl;\n" +
		"    server_name " + names + ";\n" +
		"    ssl_certificate " + cert + ";\n" +
		"}\n"
}
