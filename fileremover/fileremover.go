package fileremover

import (
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

// Cleaner removes the working directories created for a test run.
type Cleaner interface {
	Cleanup(keep bool, dirs ...string)
}

type cleaner struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewCleaner ...
func NewCleaner(logger log.Logger, fileManager fileutil.FileManager) Cleaner {
	return cleaner{
		logger:      logger,
		fileManager: fileManager,
	}
}

// Cleanup removes the given directories, unless keep is set. Failures are only logged.
func (c cleaner) Cleanup(keep bool, dirs ...string) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		if keep {
			c.logger.Printf("Keeping temporary files at: %s", dir)
			continue
		}

		c.logger.Debugf("Removing temporary files at: %s", dir)
		if err := c.fileManager.RemoveAll(dir); err != nil {
			c.logger.Warnf("Failed to remove %s: %s", dir, err)
		}
	}
}
