package testaddon

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const (
	reportFileName   = "instrumentation-results.xml"
	metadataFileName = "test-info.json"
)

// Exporter ...
type Exporter interface {
	Export(info AddonExport) error
}

// AddonExport ...
type AddonExport struct {
	Results               results.Results
	TargetAddonPath       string
	TargetAddonBundleName string
}

type exporter struct {
	logger      log.Logger
	fileManager fileutil.FileManager
}

// NewExporter ...
func NewExporter(logger log.Logger, fileManager fileutil.FileManager) Exporter {
	return &exporter{
		logger:      logger,
		fileManager: fileManager,
	}
}

// Export writes the results as a JUnit report next to the bundle metadata the test addon expects.
func (e exporter) Export(info AddonExport) error {
	bundleName := replaceUnsupportedFilenameCharacters(info.TargetAddonBundleName)
	addonPerStepOutputDir := filepath.Join(info.TargetAddonPath, bundleName)

	report, err := xml.MarshalIndent(newTestReport(bundleName, info.Results), "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode test report: %w", err)
	}

	reportPth := filepath.Join(addonPerStepOutputDir, reportFileName)
	if err := e.fileManager.Write(reportPth, xml.Header+string(report), 0600); err != nil {
		return fmt.Errorf("failed to write test report: %w", err)
	}
	e.logger.Debugf("Test report written to %s", reportPth)

	return e.saveBundleMetadata(addonPerStepOutputDir, bundleName)
}

func (e exporter) saveBundleMetadata(outputDir string, bundleName string) error {
	type testBundle struct {
		BundleName string `json:"test-name"`
	}
	bytes, err := json.Marshal(testBundle{
		BundleName: bundleName,
	})
	if err != nil {
		return fmt.Errorf("could not encode metadata: %w", err)
	}
	if err = e.fileManager.Write(filepath.Join(outputDir, metadataFileName), string(bytes), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// replaceUnsupportedFilenameCharacters replaces '/' and ':', which are not allowed in the bundle directory name.
func replaceUnsupportedFilenameCharacters(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
