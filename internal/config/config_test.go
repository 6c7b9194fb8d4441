package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
feeds:
  - name: BBC
    url: http://feeds.bbci.co.uk/news/rss.xml
  - name: Times of India
    url: https://timesofindia.indiatimes.com/rssfeedstopstories.cms
    limit: 3
weather:
  city: Delhi
  country_code: IN
  api_key: test-key
mailbox:
  host: imap.example.com:993
  username: reader@example.com
  password: secret
smtp:
  host: smtp.example.com
  username: sender@example.com
  password: secret
  from: sender@example.com
  to: recipient@example.com
generation:
  backend: claude
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, DefaultFeedLimit, cfg.Feeds[0].Limit)
	assert.Equal(t, 3, cfg.Feeds[1].Limit)
	assert.Equal(t, DefaultMailboxFolder, cfg.Mailbox.Folder)
	assert.Equal(t, DefaultSinceDays, cfg.Mailbox.SinceDays)
	assert.Equal(t, DefaultEmailLimit, cfg.Mailbox.Limit)
	assert.Equal(t, DefaultSnippetMaxLen, cfg.Mailbox.SnippetMaxLen)
	assert.Equal(t, DefaultSMTPPort, cfg.SMTP.Port)
	assert.Equal(t, DefaultMaxTokens, cfg.Generation.MaxTokens)
	assert.Equal(t, DefaultModels("claude"), cfg.Generation.Models)
}

func TestLoad_PreservesFeedOrder(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Feeds, 2)
	assert.Equal(t, "BBC", cfg.Feeds[0].Name)
	assert.Equal(t, "Times of India", cfg.Feeds[1].Name)
}

func TestLoad_EnvOverridesSecrets(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "env-weather-key")
	t.Setenv("MAILBOX_PASSWORD", "env-mailbox-pass")
	t.Setenv("SMTP_PASSWORD", "env-smtp-pass")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "env-weather-key", cfg.Weather.APIKey)
	assert.Equal(t, "env-mailbox-pass", cfg.Mailbox.Password)
	assert.Equal(t, "env-smtp-pass", cfg.SMTP.Password)
}

func TestLoad_MissingFileWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template")

	// The template must be loadable YAML on a second attempt.
	_, err = os.Stat(path)
	require.NoError(t, err)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Feeds)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"no feeds", `
smtp: {host: smtp.example.com, from: a@b.c, to: d@e.f}
`},
		{"missing smtp recipient", `
feeds: [{name: BBC, url: http://feeds.bbci.co.uk/news/rss.xml}]
smtp: {host: smtp.example.com, from: a@b.c}
`},
		{"bad backend", `
feeds: [{name: BBC, url: http://feeds.bbci.co.uk/news/rss.xml}]
smtp: {host: smtp.example.com, from: a@b.c, to: d@e.f}
generation: {backend: gemini}
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestDefaultModels(t *testing.T) {
	assert.NotEmpty(t, DefaultModels("claude"))
	assert.NotEmpty(t, DefaultModels("openai"))
	assert.Nil(t, DefaultModels("none"))
}
