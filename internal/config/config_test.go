package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := New("")
	require.NoError(t, err)

	require.Equal(t, "https://www.ps154.org", cfg.Site.Root)
	require.Equal(t, "/calendar", cfg.Site.CalendarPath)
	require.Equal(t, 5*time.Second, cfg.Site.WaitTimeout)
	require.Equal(t, 5, cfg.Site.MaxAttempts)
	require.Equal(t, 4, cfg.Site.EmptyMonthLimit)
	require.Equal(t, 0, cfg.Site.MaxMonths)
	require.Equal(t, "service-account-key.json", cfg.Google.CredentialsFile)
	require.Equal(t, "equality-diff", cfg.Sync.Policy)
	require.False(t, cfg.Sync.FailFast)
	require.Equal(t, "INFO", cfg.Logger.Level)
	require.Equal(t, "~/.local/share/cal-sync", cfg.Storage.DataDir)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	viper.Reset()

	path := writeConfig(t, `
site:
  root: https://school.example
  waitTimeout: 10s
  maxMonths: 3
google:
  calendarId: abc123@group.calendar.google.com
  creator: bot@project.iam.gserviceaccount.com
sync:
  policy: replace-all
  failFast: true
logger:
  level: DEBUG
`)

	cfg, err := New(path)
	require.NoError(t, err)

	require.Equal(t, "https://school.example", cfg.Site.Root)
	require.Equal(t, 10*time.Second, cfg.Site.WaitTimeout)
	require.Equal(t, 3, cfg.Site.MaxMonths)
	require.Equal(t, "/calendar", cfg.Site.CalendarPath)
	require.Equal(t, "abc123@group.calendar.google.com", cfg.Google.CalendarID)
	require.Equal(t, "bot@project.iam.gserviceaccount.com", cfg.Google.Creator)
	require.Equal(t, "replace-all", cfg.Sync.Policy)
	require.True(t, cfg.Sync.FailFast)
	require.Equal(t, "DEBUG", cfg.Logger.Level)
}

func TestEnvBinding(t *testing.T) {
	viper.Reset()

	path := writeConfig(t, `
google:
  calendarId: $env:CAL_SYNC_CALENDAR_ID
  creator: bot@project.iam.gserviceaccount.com
`)
	t.Setenv("CAL_SYNC_CALENDAR_ID", "from-env@group.calendar.google.com")

	cfg, err := New(path)
	require.NoError(t, err)
	require.Equal(t, "from-env@group.calendar.google.com", cfg.Google.CalendarID)
}

func TestMissingConfigFile(t *testing.T) {
	viper.Reset()

	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		calendarID string
		creator    string
		wantErr    bool
	}{
		{"complete", "cal@group.calendar.google.com", "bot@project.iam.gserviceaccount.com", false},
		{"missing calendar id", "", "bot@project.iam.gserviceaccount.com", true},
		{"missing creator", "cal@group.calendar.google.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.Google.CalendarID = tt.calendarID
			cfg.Google.Creator = tt.creator

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
