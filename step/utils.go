package step

import (
	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/v2/log"
)

func printTestLogsHint(logger log.Logger, exported bool) {
	logger.Warnf("If you can't find the reason of the failure in the log above, please check the raw test output.")

	if !exported {
		logger.Printf("Set --deploy-dir to export the raw test output.")
		return
	}

	logger.Infof("%s", colorstring.Magenta(`
The raw test output is stored in the deploy dir, and its full path
is available in the $ANDROID_INSTRUMENTATION_TEST_LOGS_ZIP_PATH environment variable.`))
}
