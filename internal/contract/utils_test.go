package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorNullCell(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		assert.Equal(t, NullCellValue, ColorNullCell(false))
	})

	t.Run("colored still contains marker", func(t *testing.T) {
		assert.Contains(t, ColorNullCell(true), NullCellValue)
	})
}

func TestColorExtendedCell(t *testing.T) {
	t.Run("plain appends marker", func(t *testing.T) {
		assert.Equal(t, "0.250"+ExtendedCellMark, ColorExtendedCell("0.250", false))
	})

	t.Run("colored still contains value and marker", func(t *testing.T) {
		out := ColorExtendedCell("0.250", true)
		assert.Contains(t, out, "0.250")
		assert.Contains(t, out, ExtendedCellMark)
	})
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "trends.csv")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".polltrend_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	runsPath := GetRunsDBFilePath()
	assert.Contains(t, runsPath, ".polltrend_runs.db")
	assert.NotEqual(t, cachePath, runsPath)
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Run("valid date normalizes to midnight UTC", func(t *testing.T) {
		got, err := ParseDate("2024-02-29")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		_, err := ParseDate("2/29/24")
		assert.Error(t, err)
	})
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  ", nil},
		{"single", "Smith", []string{"Smith"}},
		{"trims parts", " Smith , Jones ", []string{"Smith", "Jones"}},
		{"drops empty parts", "Smith,,Jones,", []string{"Smith", "Jones"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
