package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/export"
	"github.com/openhouse-labs/propscore/internal/model"
)

func TestBatchOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "cohort-a.csv"),
		batchOutputPath("out", filepath.Join("in", "cohort-a.json"), export.FormatCSV))
	assert.Equal(t, filepath.Join("out", "cohort-a.txt"),
		batchOutputPath("out", filepath.Join("in", "cohort-a.json"), export.FormatTable))
	assert.Equal(t, filepath.Join("out", "cohort-a.xlsx"),
		batchOutputPath("out", filepath.Join("in", "cohort-a.json"), export.FormatXLSX))
}

func TestProcessBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	good := `[{"id":"prop-1","price":300000,"livingArea":1500},{"id":"prop-2","price":400000,"livingArea":2100}]`
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "good.json"), []byte(good), 0o644))

	// One property is below the minimum cohort size; this file must be
	// skipped without failing the batch.
	short := `[{"id":"prop-1","price":300000,"livingArea":1500}]`
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "short.json"), []byte(short), 0o644))

	files, err := filepath.Glob(filepath.Join(inDir, "*.json"))
	require.NoError(t, err)
	require.Len(t, files, 2)

	eng := engine.New(engine.DefaultConfig())
	err = processBatch(context.Background(), files, outDir, export.FormatJSON, model.ComparisonCriteria{}, 2, eng)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "good.json"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "short.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestProcessBatch_AllInvalid(t *testing.T) {
	inDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inDir, "bad.json"), []byte("{not json"), 0o644))

	files, err := filepath.Glob(filepath.Join(inDir, "*.json"))
	require.NoError(t, err)

	eng := engine.New(engine.DefaultConfig())
	err = processBatch(context.Background(), files, t.TempDir(), export.FormatCSV, model.ComparisonCriteria{}, 1, eng)
	assert.NoError(t, err)
}
