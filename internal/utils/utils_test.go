package utils

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformFloats(t *testing.T) {
	in := map[string]any{
		"pitch": float32(1.1),
		"list":  []any{0.123456789, "x", 3},
		"nested": map[string]any{
			"v": []map[string]any{{"f": 2.000004}},
		},
	}
	got := TransformFloats(in)
	assert.Equal(t, map[string]any{
		"pitch": 1.1,
		"list":  []any{0.12346, "x", 3},
		"nested": map[string]any{
			"v": []any{map[string]any{"f": 2.0}},
		},
	}, got)
	// the input is left alone
	assert.Equal(t, float32(1.1), in["pitch"])
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(2, 0, func() error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	fatal := errors.New("404")
	err = Retry(5, 0, func() error {
		calls++
		return Stop(fatal)
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.jar")
	data := []byte("PK\x03\x04")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	ok, err := Verify(fmt.Sprintf("%X", sha1.Sum(data)), path)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("0000", path)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Verify("0000", filepath.Join(t.TempDir(), "missing.jar"))
	assert.Error(t, err)
}

func TestSliceHelpers(t *testing.T) {
	assert.Equal(t, []string{"identify", "version"}, Unique([]string{"identify", "", "version", "identify"}))
	assert.False(t, StrSliceContains([]string{"versions"}, "version"))
	assert.True(t, StrSliceContains([]string{"meta"}, "entitymetadata"))
}
