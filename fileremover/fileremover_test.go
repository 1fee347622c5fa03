package fileremover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenTempDir_WhenCleaningUp_ThenRemovesIt(t *testing.T) {
	// Given
	dir := createTempDirWithLog(t)

	// When
	NewCleaner(log.NewLogger(), fileutil.NewFileManager()).Cleanup(false, dir, "")

	// Then
	assert.NoDirExists(t, dir)
}

func Test_GivenKeepTempFiles_WhenCleaningUp_ThenKeepsIt(t *testing.T) {
	// Given
	dir := createTempDirWithLog(t)

	// When
	NewCleaner(log.NewLogger(), fileutil.NewFileManager()).Cleanup(true, dir)

	// Then
	assert.FileExists(t, filepath.Join(dir, "run1.log"))
}

func createTempDirWithLog(t *testing.T) string {
	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, fileutil.NewFileManager().Write(filepath.Join(dir, "run1.log"), "INSTRUMENTATION_CODE: -1", 0600))
	return dir
}
