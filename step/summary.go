package step

import (
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const (
	testType = "Instrumentation"

	buildbotStepFailure  = "@@@STEP_FAILURE@@@"
	buildbotStepWarnings = "@@@STEP_WARNINGS@@@"
)

// SummarizeResults merges the Java and Python results, logs them and returns
// the merged collection, its summary line and the number of failing tests.
func SummarizeResults(logger log.Logger, javaResults, pythonResults results.Results, annotation string) (results.Results, string, int) {
	all := results.Merge(javaResults, pythonResults)
	summary := all.LogFull(logger, testType, annotation)
	return all, summary, all.FailingCount()
}

func annotationLabel(annotations []string) string {
	return strings.Join(annotations, ",")
}

// buildbotAnnotation marks the build step as failed or warned when there are failing tests.
func buildbotAnnotation(failingCount int, stepFailure bool) string {
	if failingCount == 0 {
		return ""
	}
	if stepFailure {
		return buildbotStepFailure
	}
	return buildbotStepWarnings
}
