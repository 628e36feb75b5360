package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/vahti/config"
	"github.com/yairfalse/vahti/internal/tags"
)

func TestResolveRegion(t *testing.T) {
	cfg := &config.Config{Region: "eu-west-1"}

	assert.Equal(t, "ap-south-1", resolveRegion("ap-south-1", cfg))
	assert.Equal(t, "eu-west-1", resolveRegion("", cfg))
	assert.Equal(t, "us-east-1", resolveRegion("", &config.Config{}))
}

func TestReportCriteria_FromFlags(t *testing.T) {
	reportRequire = []string{"Owner=.*", "Environment=^prod$"}
	defer func() { reportRequire = nil }()

	criteria, err := reportCriteria(tags.Criteria{"Team": ".*"})

	require.NoError(t, err)
	// Flags override the config policy entirely.
	assert.Equal(t, tags.Criteria{"Owner": ".*", "Environment": "^prod$"}, criteria)
}

func TestReportCriteria_FromConfig(t *testing.T) {
	reportRequire = nil

	criteria, err := reportCriteria(tags.Criteria{"Team": ".*"})

	require.NoError(t, err)
	assert.Equal(t, tags.Criteria{"Team": ".*"}, criteria)
}

func TestReportCriteria_None(t *testing.T) {
	reportRequire = nil

	_, err := reportCriteria(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tag criteria")
}

func TestReportCriteria_Malformed(t *testing.T) {
	reportRequire = []string{"OwnerWithoutPattern"}
	defer func() { reportRequire = nil }()

	_, err := reportCriteria(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected name=pattern")
}
