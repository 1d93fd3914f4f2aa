package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscout/internal/config"
	"tabscout/internal/container"
)

func TestFindTabularFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	for _, name := range []string{"a.csv", "b.TSV", "notes.md", "nested/c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	files, err := findTabularFiles(dir, []string{".csv", ".tsv", ".txt"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.TSV"),
		filepath.Join(dir, "nested", "c.txt"),
	}, files)
}

func TestImportFile(t *testing.T) {
	cfg := &config.Config{
		Database:  config.DatabaseConfig{Driver: config.DriverSQLite, URL: ":memory:"},
		Profiling: config.ProfilingConfig{SampleWindow: 100, PreviewRows: 10, IntegritySampleRows: 100, Workers: 1},
		Storage:   config.StorageConfig{BasePath: t.TempDir(), MaxFileSize: 1 << 20},
	}
	c, err := container.New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, c.InitWithDatabase(context.Background()))
	t.Cleanup(func() { c.Close() })

	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte("a,b\n1,2\n3,4\n"), 0644))
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a,b\n"), 0644))

	require.NoError(t, importFile(context.Background(), c.Processor, good))
	assert.Error(t, importFile(context.Background(), c.Processor, bad))

	records, err := c.ProfileRepo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good.csv", records[0].Profile.FileName)
}
