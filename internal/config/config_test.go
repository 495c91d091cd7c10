package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/lockdiary/internal/crypto"
)

// unsetEnv removes key for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which requires Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	unsetEnv(t, "LOCKDIARY_PATH", "LOCKDIARY_ITERATIONS", "LOCKDIARY_LOG_LEVEL",
		"LOCKDIARY_PASSWORD", "LOCKDIARY_NO_KEYRING")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultVaultName), cfg.Path)
	assert.Equal(t, crypto.DefaultIterations, cfg.Iterations)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Password)
	assert.False(t, cfg.NoKeyring)
}

func TestLoadFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LOCKDIARY_PATH", "~/notes/diary.db")
	t.Setenv("LOCKDIARY_ITERATIONS", "2000")
	t.Setenv("LOCKDIARY_LOG_LEVEL", "debug")
	t.Setenv("LOCKDIARY_PASSWORD", "secret")
	t.Setenv("LOCKDIARY_NO_KEYRING", "true")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes", "diary.db"), cfg.Path)
	assert.Equal(t, 2000, cfg.Iterations)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "secret", cfg.Password)
	assert.True(t, cfg.NoKeyring)
}

func TestLoadRejectsBadIterations(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	unsetEnv(t, "LOCKDIARY_PATH")
	chdir(t, t.TempDir())

	t.Setenv("LOCKDIARY_ITERATIONS", "0")
	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidIterations)

	t.Setenv("LOCKDIARY_ITERATIONS", "100000000")
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidIterations)

	t.Setenv("LOCKDIARY_ITERATIONS", "many")
	_, err = Load()
	assert.Error(t, err)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LOCKDIARY_PATH", "/tmp/from-env")
	unsetEnv(t, "LOCKDIARY_ITERATIONS", "LOCKDIARY_NO_KEYRING")
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"-vault", "/tmp/from-flag", "-iterations", "5", "-no-keyring"}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/from-flag", cfg.Path)
	assert.Equal(t, 5, cfg.Iterations)
	assert.True(t, cfg.NoKeyring)
}
