package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type sampleConfig struct {
	Name    string        `envconfig:"NAME" default:"anon"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"3s"`
	Debug   bool          `split_words:"true"`
}

func TestNewReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGTEST_NAME=shop\nCFGTEST_TIMEOUT=5s\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		SetEnvFile("")
		os.Unsetenv("CFGTEST_NAME")
		os.Unsetenv("CFGTEST_TIMEOUT")
	})

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGTEST")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "shop" {
		t.Fatalf("Name = %q, want shop", conf.Name)
	}
	if conf.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", conf.Timeout)
	}
}

func TestNewKeepsExistingEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CFGKEEP_NAME=fromfile\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFGKEEP_NAME", "fromenv")
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(path)
	conf, err := New[sampleConfig]("CFGKEEP")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Name != "fromenv" {
		t.Fatalf("Name = %q, want fromenv", conf.Name)
	}
}

func TestNewMissingEnvFileFails(t *testing.T) {
	t.Cleanup(func() { SetEnvFile("") })

	SetEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	if _, err := New[sampleConfig]("CFGMISSING"); err == nil {
		t.Fatal("New() error = nil, want error for missing env file")
	}
}
