package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bxcodec/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taisugar/toolkit/dailynecessities"
	"github.com/taisugar/toolkit/tscred"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, dailynecessities.DefaultBaseURL, cfg.DailyNecessities.BaseURL)
	assert.Equal(t, "daily_necessities", cfg.DailyNecessities.Profile)
	assert.Equal(t, tscred.DefaultBaseURL, cfg.TSCRED.BaseURL)
	assert.Equal(t, int(tscred.ByStation), cfg.TSCRED.DisplayMode)
	assert.Equal(t, "templates", cfg.TemplateDir)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	// Given
	path := writeFile(t, "toolkit.yaml", `
timeout: 12s
template_dir: /srv/templates
tscred:
  base_url: http://tscred.local/TSCRED/
  operation_centers: ["13", "15"]
  department_id: "11"
server:
  addr: ":9000"
`)
	t.Setenv("TAISUGAR_OUTPUT_DIR", "/tmp/out")
	t.Setenv("TAISUGAR_SERVER_ADDR", ":9100")

	// When
	cfg, err := Load(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.Equal(t, "/srv/templates", cfg.TemplateDir)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, "http://tscred.local/TSCRED/", cfg.TSCRED.BaseURL)
	assert.Equal(t, []string{"13", "15"}, cfg.TSCRED.OperationCenters)
	assert.Equal(t, "11", cfg.TSCRED.DepartmentID)
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, dailynecessities.DefaultBaseURL, cfg.DailyNecessities.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCredentials(t *testing.T) {
	user, password := faker.Username(), faker.Word()+"-"+faker.Word()
	path := writeFile(t, "credentials.ini", `
[daily_necessities]
user_id  = `+user+`
password = `+password+`

[tscred]

[broken]
password = only
`)

	creds, err := NewCredentials(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"daily_necessities", "broken"}, creds.Profiles())

	account, err := creds.Account("daily_necessities")
	require.NoError(t, err)
	assert.Equal(t, Account{UserID: user, Password: password}, account)

	_, err = creds.Account("broken")
	assert.Error(t, err)
	_, err = creds.Account("missing")
	assert.EqualError(t, err, "profile missing not found (have: daily_necessities, broken)")
}

func TestNewCredentials_MissingFile(t *testing.T) {
	_, err := NewCredentials(filepath.Join(t.TempDir(), "none.ini"))
	assert.Error(t, err)
}
