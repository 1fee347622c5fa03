package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/output/mocks"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/testaddon"
)

type testingMocks struct {
	envRepository     *mocks.Repository
	testAddonExporter *mocks.TestAddonExporter
}

func Test_GivenNoFailingTests_WhenExportingTestRunResult_ThenSetsEnvVariablesToSuccess(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	exporter.ExportTestRunResult(0)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", testResultKey, "succeeded")
	mocks.envRepository.AssertCalled(t, "Set", failingCountKey, "0")
}

func Test_GivenFailingTests_WhenExportingTestRunResult_ThenSetsEnvVariablesToFailure(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)

	// When
	exporter.ExportTestRunResult(2)

	// Then
	mocks.envRepository.AssertCalled(t, "Set", testResultKey, "failed")
	mocks.envRepository.AssertCalled(t, "Set", failingCountKey, "2")
}

func Test_GivenSummary_WhenExporting_ThenWritesItToDeployDirAndSetsEnvVariable(t *testing.T) {
	// Given
	deployDir := t.TempDir()
	exporter, mocks := createSutAndMocks(t)

	// When
	err := exporter.ExportSummary(deployDir, "Java tests (SmallTest) summary: RAN=2, PASSED=1, FAILED=1, CRASHED=0, UNKNOWN=0")

	// Then
	require.NoError(t, err)
	summaryPath := filepath.Join(deployDir, summaryFileName)
	content, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "RAN=2")
	mocks.envRepository.AssertCalled(t, "Set", summaryPathKey, summaryPath)
}

func Test_GivenMissingLogDir_WhenExportingTestLogs_ThenDoesNothing(t *testing.T) {
	// Given
	exporter, _ := createSutAndMocks(t)

	// When
	err := exporter.ExportTestLogs(t.TempDir(), filepath.Join(t.TempDir(), "missing"))

	// Then
	require.NoError(t, err)
}

func Test_GivenTestResultDir_WhenExportingTestResults_ThenCallsTestAddonExporter(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)
	r := results.Results{Passed: []results.TestResult{{Name: "org.chromium.FooTest#testPass"}}}

	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("/tmp/test-results")
	mocks.testAddonExporter.On("Export", mock.Anything).Return(nil)

	// When
	exporter.ExportTestResults(r, "ContentShellTest")

	// Then
	mocks.testAddonExporter.AssertCalled(t, "Export", testaddon.AddonExport{
		Results:               r,
		TargetAddonPath:       "/tmp/test-results",
		TargetAddonBundleName: "ContentShellTest",
	})
}

func Test_GivenNoTestResultDir_WhenExportingTestResults_ThenSkips(t *testing.T) {
	// Given
	exporter, mocks := createSutAndMocks(t)
	mocks.envRepository.On("Get", configs.BitrisePerStepTestResultDirEnvKey).Return("")

	// When
	exporter.ExportTestResults(results.Results{}, "ContentShellTest")

	// Then
	mocks.testAddonExporter.AssertNotCalled(t, "Export", mock.Anything)
}

// Helpers

func createSutAndMocks(t *testing.T) (Exporter, testingMocks) {
	envRepository := new(mocks.Repository)
	envRepository.On("Set", mock.Anything, mock.Anything).Return(nil)
	testAddonExporter := mocks.NewTestAddonExporter(t)

	outputExporter := export.NewExporter(command.NewFactory(env.NewRepository()), fileutil.NewFileManager())
	exporter := NewExporter(envRepository, log.NewLogger(), fileutil.NewFileManager(), pathutil.NewPathChecker(), outputExporter, testAddonExporter)

	return exporter, testingMocks{
		envRepository:     envRepository,
		testAddonExporter: testAddonExporter,
	}
}
