package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
region: eu-west-1
environment: prod
handler: weather
code:
  bucket: artifacts
  key: uptime/bootstrap.zip
tags:
  Owner: sre
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, VariantWeather, cfg.Handler)
	assert.Equal(t, Code{Bucket: "artifacts", Key: "uptime/bootstrap.zip"}, cfg.Code)

	// Defaults
	assert.Equal(t, DefaultProject, cfg.Project)
	assert.Equal(t, DefaultArchitecture, cfg.Architecture)
	assert.Equal(t, DefaultMemorySize, cfg.MemorySize)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "missing region",
			yaml: "code: {bucket: a, key: b}\n",
			want: ErrRegionRequired,
		},
		{
			name: "missing code key",
			yaml: "region: us-east-1\ncode: {bucket: a}\n",
			want: ErrCodeRequired,
		},
		{
			name: "unknown handler",
			yaml: "region: us-east-1\nhandler: cron\ncode: {bucket: a, key: b}\n",
			want: ErrUnknownVariant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("region: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverride(t *testing.T) {
	cfg := New("us-east-1")
	cfg.Override("", "staging")
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "staging", cfg.Environment)

	cfg.Override("ap-south-1", "")
	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestDefaultTags(t *testing.T) {
	cfg := New("us-east-1")
	cfg.Tags = map[string]string{"Owner": "sre", "Project": "ignored"}

	assert.Equal(t, []Tag{
		{Key: "Environment", Value: "dev"},
		{Key: "Owner", Value: "sre"},
		{Key: "Project", Value: "uptime"},
	}, cfg.DefaultTags())
}

func TestRead_SkipsValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uptime.yaml")
	require.NoError(t, os.WriteFile(path, []byte("code:\n  bucket: a\n  key: b\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrRegionRequired)

	cfg, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultProject, cfg.Project)

	cfg.Override("us-west-2", "")
	assert.NoError(t, cfg.Validate())
}
