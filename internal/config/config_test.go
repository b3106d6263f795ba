package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Download.Dir)
	assert.Equal(t, 3, c.Download.Attempts)
	assert.Equal(t, DefaultCacheSize, c.Analysis.CacheSize)
	assert.Empty(t, c.Analysis.Modules)
}

func TestLoadConfigValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("verbose", true)
	viper.Set("download.dir", "/tmp/jars")
	viper.Set("analysis.modules", []string{"version", "entities"})
	viper.Set("analysis.cache-size", 64)
	viper.Set("output.compact", true)

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.Equal(t, "/tmp/jars", c.Download.Dir)
	assert.Equal(t, []string{"version", "entities"}, c.Analysis.Modules)
	assert.Equal(t, 64, c.Analysis.CacheSize)
	assert.True(t, c.Output.Compact)
}

func TestLoadConfigInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("analysis.cache-size", -1)
	_, err := LoadConfig()
	assert.ErrorContains(t, err, "cache-size")
}
