package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validOAuthClient = `{
  "installed": {
    "client_id": "planner.apps.googleusercontent.com",
    "project_id": "deployment-planner",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token",
    "auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
    "client_secret": "secret",
    "redirect_uris": ["http://localhost"]
  }
}`

func TestLoadOAuthClientFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oauthClient.json")
	require.NoError(t, os.WriteFile(path, []byte(validOAuthClient), 0600))

	cfg, err := LoadOAuthClientFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "deployment-planner", cfg.Installed.ProjectID)
	assert.Equal(t, []string{"http://localhost"}, cfg.Installed.RedirectURIs)
}

func TestLoadOAuthClientFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "not json", body: "{", wantErr: "failed to parse oauth client file"},
		{name: "missing client id", body: `{"installed": {"project_id": "p"}}`, wantErr: "oauth client validation failed"},
		{
			name: "bad auth uri",
			body: `{"installed": {"client_id": "c", "project_id": "p", "auth_uri": "nope",
				"token_uri": "https://oauth2.googleapis.com/token",
				"auth_provider_x509_cert_url": "https://www.googleapis.com/oauth2/v1/certs",
				"client_secret": "s", "redirect_uris": ["http://localhost"]}}`,
			wantErr: "oauth client validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "oauthClient.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0600))

			_, err := LoadOAuthClientFromPath(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOAuthClientWithEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oauthClient.prod.json"), []byte(validOAuthClient), 0600))
	t.Chdir(dir)

	_, err := LoadOAuthClientWithEnv("prod")
	require.NoError(t, err)

	t.Setenv("HOME", t.TempDir())
	_, err = LoadOAuthClientWithEnv("dev")
	assert.Error(t, err)
}
