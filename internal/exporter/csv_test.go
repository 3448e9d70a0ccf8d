package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{OutputDir: filepath.Join(tempDir, "output")}, nil)
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths, nil)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
	assert.NotNil(t, writer.logger)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Product", "Count"},
				Records: [][]string{
					{"iPhone", "2"},
					{"Google Phone", "1"},
				},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"Product,Count", "iPhone,2", "Google Phone,1"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Product", "Price Each"},
				Records:   [][]string{{"iPhone", "700"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, utf8BOM))
				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "Product,Price Each", lines[0])
			},
		},
		{
			name:     "quotes fields containing commas",
			filePath: "nested/dir/quoted.csv",
			options: WriteOptions{
				Records: [][]string{{"917 1st St, Dallas, TX 75001"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "\"917 1st St, Dallas, TX 75001\"\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))

			content, err := os.ReadFile(filepath.Join(tempDir, "output", tt.filePath))
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_WriteCSV_Truncates(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"a"}, {"b"}, {"c"}}}))
	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"z"}}}))

	content, err := os.ReadFile(filepath.Join(tempDir, "output", "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "z\n", string(content))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	target := filepath.Join(tempDir, "elsewhere", "abs.csv")

	require.NoError(t, writer.WriteSimpleCSV(target, []string{"h"}, [][]string{{"v"}}))
	assert.FileExists(t, target)
}

func TestStreamWriter(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	target := filepath.Join(tempDir, "output", "stream.csv")

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Order ID", "Product"})
	require.NoError(t, err)
	assert.Equal(t, target, stream.Path())

	require.NoError(t, stream.WriteRecord([]string{"1", "iPhone"}))
	require.NoError(t, stream.WriteRecord([]string{"2", "Google Phone"}))

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err), "target appears only after Close")

	require.NoError(t, stream.Close())

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "Order ID,Product\n1,iPhone\n2,Google Phone\n", string(content))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestStreamWriter_AbortKeepsPreviousFile(t *testing.T) {
	writer, tempDir := setupTestEnv(t)
	require.NoError(t, writer.WriteCSV("keep.csv", WriteOptions{Records: [][]string{{"old"}}}))

	stream, err := writer.CreateStreamWriter("keep.csv", nil)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"new"}))
	stream.Abort()

	content, err := os.ReadFile(filepath.Join(tempDir, "output", "keep.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(content))

	entries, err := os.ReadDir(filepath.Join(tempDir, "output"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}
