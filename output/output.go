package output

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bitrise-io/bitrise/configs"
	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/testaddon"
)

const (
	testResultKey       = "ANDROID_INSTRUMENTATION_TEST_RESULT"
	failingCountKey     = "ANDROID_INSTRUMENTATION_TEST_FAILING_COUNT"
	summaryPathKey      = "ANDROID_INSTRUMENTATION_TEST_SUMMARY_PATH"
	testLogsZipPathKey  = "ANDROID_INSTRUMENTATION_TEST_LOGS_ZIP_PATH"
	summaryFileName     = "instrumentation_test_summary.txt"
	testLogsZipFileName = "instrumentation_test_logs.zip"
)

// Exporter ...
type Exporter interface {
	ExportTestRunResult(failingCount int)
	ExportSummary(deployDir, summary string) error
	ExportTestLogs(deployDir, logDir string) error
	ExportTestResults(r results.Results, bundleName string)
}

type exporter struct {
	envRepository     env.Repository
	logger            log.Logger
	fileManager       fileutil.FileManager
	pathChecker       pathutil.PathChecker
	outputExporter    export.Exporter
	testAddonExporter testaddon.Exporter
}

// NewExporter ...
func NewExporter(envRepository env.Repository, logger log.Logger, fileManager fileutil.FileManager, pathChecker pathutil.PathChecker, outputExporter export.Exporter, testAddonExporter testaddon.Exporter) Exporter {
	return &exporter{
		envRepository:     envRepository,
		logger:            logger,
		fileManager:       fileManager,
		pathChecker:       pathChecker,
		outputExporter:    outputExporter,
		testAddonExporter: testAddonExporter,
	}
}

func (e exporter) ExportTestRunResult(failingCount int) {
	status := "succeeded"
	if failingCount > 0 {
		status = "failed"
	}
	if err := e.envRepository.Set(testResultKey, status); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", testResultKey, err)
	}
	if err := e.envRepository.Set(failingCountKey, strconv.Itoa(failingCount)); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", failingCountKey, err)
	}
}

func (e exporter) ExportSummary(deployDir, summary string) error {
	deployPth := filepath.Join(deployDir, summaryFileName)
	if err := e.fileManager.Write(deployPth, summary+"\n", 0600); err != nil {
		return fmt.Errorf("failed to write summary to (%s): %w", deployPth, err)
	}

	if err := e.envRepository.Set(summaryPathKey, deployPth); err != nil {
		e.logger.Warnf("Failed to export: %s: %s", summaryPathKey, err)
	}

	return nil
}

func (e exporter) ExportTestLogs(deployDir, logDir string) error {
	if exists, err := e.pathChecker.IsDirExists(logDir); err != nil {
		return fmt.Errorf("failed to check test log dir (%s): %w", logDir, err)
	} else if !exists {
		e.logger.Debugf("No test logs at %s", logDir)
		return nil
	}

	zipPth := filepath.Join(deployDir, testLogsZipFileName)
	if err := e.outputExporter.ExportOutputFilesZip(testLogsZipPathKey, []string{logDir}, zipPth); err != nil {
		return fmt.Errorf("failed to export test logs: %w", err)
	}

	return nil
}

func (e exporter) ExportTestResults(r results.Results, bundleName string) {
	addonResultPath := e.envRepository.Get(configs.BitrisePerStepTestResultDirEnvKey)
	if addonResultPath == "" {
		return
	}

	e.logger.Println()
	e.logger.Infof("Exporting test results")

	if err := e.testAddonExporter.Export(testaddon.AddonExport{
		Results:               r,
		TargetAddonPath:       addonResultPath,
		TargetAddonBundleName: bundleName,
	}); err != nil {
		e.logger.Warnf("Failed to export test results: %s", err)
	}
}
