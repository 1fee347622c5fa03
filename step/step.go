package step

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/apkinfo"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/fileremover"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/javatests"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/output"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/pythontests"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const (
	defaultBundleName = "instrumentation-tests"
	debugVerboseCount = 2
)

var defaultAnnotations = []string{"Smoke", "SmallTest", "MediumTest", "LargeTest"}

// Input ...
type Input struct {
	TestApk    string
	JavaOnly   bool
	PythonOnly bool

	Annotation string
	TestFilter string

	InstallApk   bool
	NumberOfRuns int
	ShardRetries int
	Device       string

	PythonTestRoot    string
	PythonInterpreter string

	BuildType string
	OutDir    string

	InstrumentationRunner string
	InstrumentationArgs   string

	BuildbotStepFailure bool
	DeployDir           string
	KeepTempFiles       bool
	VerboseCount        int
}

// Config ...
type Config struct {
	RunJavaTests   bool
	RunPythonTests bool

	TestApkPath    string
	TestApkJarPath string

	Annotations []string
	TestFilter  string

	InstallApk   bool
	NumberOfRuns int
	ShardRetries int
	Device       string

	PythonTestRoot    string
	PythonInterpreter string

	InstrumentationRunner string
	InstrumentationArgs   []string

	BuildbotStepFailure bool
	DeployDir           string
	KeepTempFiles       bool
}

// InstrumentationTestConfigParser ...
type InstrumentationTestConfigParser struct {
	logger       log.Logger
	pathChecker  pathutil.PathChecker
	pathModifier pathutil.PathModifier
}

// NewInstrumentationTestConfigParser ...
func NewInstrumentationTestConfigParser(logger log.Logger, pathChecker pathutil.PathChecker, pathModifier pathutil.PathModifier) InstrumentationTestConfigParser {
	return InstrumentationTestConfigParser{
		logger:       logger,
		pathChecker:  pathChecker,
		pathModifier: pathModifier,
	}
}

// ProcessConfig validates the command line options and resolves the test package paths.
func (s InstrumentationTestConfigParser) ProcessConfig(input Input) (Config, error) {
	stepconf.Print(input)
	s.logger.Println()

	s.logger.EnableDebugLog(input.VerboseCount >= debugVerboseCount)

	if input.JavaOnly && input.PythonOnly {
		return Config{}, errors.New("--java-only and --python-only are mutually exclusive")
	}

	if input.PythonOnly && input.PythonTestRoot == "" {
		return Config{}, errors.New("--python-test-root must be specified with --python-only")
	}

	runJavaTests := !input.PythonOnly
	runPythonTests := !input.JavaOnly
	if runPythonTests && input.PythonTestRoot == "" {
		s.logger.Debugf("No Python test root given, Python tests are disabled")
		runPythonTests = false
	}

	if input.NumberOfRuns < 1 {
		return Config{}, fmt.Errorf("invalid number of runs (%d), should be at least 1", input.NumberOfRuns)
	}
	if input.ShardRetries < 0 {
		return Config{}, fmt.Errorf("invalid number of shard retries (%d), should not be negative", input.ShardRetries)
	}

	var apkPath, jarPath string
	if runJavaTests {
		if input.TestApk == "" {
			return Config{}, errors.New("--test-apk must be specified")
		}

		var err error
		apkPath, jarPath, err = s.resolveTestApk(input)
		if err != nil {
			return Config{}, err
		}
	}

	instrumentationArgs, err := shellquote.Split(input.InstrumentationArgs)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse instrumentation args (%s): %w", input.InstrumentationArgs, err)
	}

	var pythonTestRoot string
	if runPythonTests {
		if pythonTestRoot, err = s.pathModifier.AbsPath(input.PythonTestRoot); err != nil {
			return Config{}, fmt.Errorf("failed to get absolute Python test root: %w", err)
		}
	}

	return Config{
		RunJavaTests:   runJavaTests,
		RunPythonTests: runPythonTests,

		TestApkPath:    apkPath,
		TestApkJarPath: jarPath,

		Annotations: parseAnnotations(input.Annotation, input.TestFilter),
		TestFilter:  input.TestFilter,

		InstallApk:   input.InstallApk,
		NumberOfRuns: input.NumberOfRuns,
		ShardRetries: input.ShardRetries,
		Device:       input.Device,

		PythonTestRoot:    pythonTestRoot,
		PythonInterpreter: input.PythonInterpreter,

		InstrumentationRunner: input.InstrumentationRunner,
		InstrumentationArgs:   instrumentationArgs,

		BuildbotStepFailure: input.BuildbotStepFailure,
		DeployDir:           input.DeployDir,
		KeepTempFiles:       input.KeepTempFiles,
	}, nil
}

// resolveTestApk returns the apk and jar paths: an existing file is used as is,
// otherwise the name is looked up in the build output directory.
func (s InstrumentationTestConfigParser) resolveTestApk(input Input) (string, string, error) {
	exists, err := s.pathChecker.IsPathExists(input.TestApk)
	if err != nil {
		return "", "", fmt.Errorf("failed to check test apk (%s): %w", input.TestApk, err)
	}

	if exists {
		apkPath, err := s.pathModifier.AbsPath(input.TestApk)
		if err != nil {
			return "", "", fmt.Errorf("failed to get absolute test apk path: %w", err)
		}
		return apkPath, strings.TrimSuffix(apkPath, filepath.Ext(apkPath)) + ".jar", nil
	}

	buildDir := filepath.Join(input.OutDir, input.BuildType)
	apkPath := filepath.Join(buildDir, "apks", input.TestApk+".apk")
	jarPath := filepath.Join(buildDir, "test.lib.java", input.TestApk+".jar")
	s.logger.Debugf("%s is not a file, using %s", input.TestApk, apkPath)

	return apkPath, jarPath, nil
}

func parseAnnotations(annotation, testFilter string) []string {
	if annotation != "" {
		return strings.Fields(annotation)
	}
	if testFilter != "" {
		return nil
	}
	return append([]string{}, defaultAnnotations...)
}

// Result ...
type Result struct {
	Results      results.Results
	Summary      string
	FailingCount int
	BundleName   string
	LogDir       string
}

// InstrumentationTestRunner ...
type InstrumentationTestRunner struct {
	logger           log.Logger
	apkProvider      apkinfo.Provider
	javaDispatcher   javatests.Dispatcher
	pythonDispatcher pythontests.Dispatcher
	outputExporter   output.Exporter
	pathProvider     pathutil.PathProvider
	cleaner          fileremover.Cleaner
}

// NewInstrumentationTestRunner ...
func NewInstrumentationTestRunner(logger log.Logger, apkProvider apkinfo.Provider, javaDispatcher javatests.Dispatcher, pythonDispatcher pythontests.Dispatcher, outputExporter output.Exporter, pathProvider pathutil.PathProvider, cleaner fileremover.Cleaner) InstrumentationTestRunner {
	return InstrumentationTestRunner{
		logger:           logger,
		apkProvider:      apkProvider,
		javaDispatcher:   javaDispatcher,
		pythonDispatcher: pythonDispatcher,
		outputExporter:   outputExporter,
		pathProvider:     pathProvider,
		cleaner:          cleaner,
	}
}

// DispatchInstrumentationTests runs the Java tests, then the Python tests, and summarizes them together.
// A test type which is turned off contributes an empty collection.
func (s InstrumentationTestRunner) DispatchInstrumentationTests(cfg Config) (Result, error) {
	result := Result{BundleName: defaultBundleName}

	if cfg.RunJavaTests || cfg.RunPythonTests {
		logDir, err := s.pathProvider.CreateTempDir("instrumentation_test_logs")
		if err != nil {
			return Result{}, fmt.Errorf("failed to create test log dir: %w", err)
		}
		result.LogDir = logDir
	}

	var javaResults, pythonResults results.Results

	if cfg.RunJavaTests {
		s.logger.Println()
		s.logger.Infof("Running Java tests")

		apk, err := s.apkProvider.New(cfg.TestApkPath, cfg.TestApkJarPath)
		if err != nil {
			return result, err
		}
		result.BundleName = strings.TrimSuffix(filepath.Base(apk.ApkPath), filepath.Ext(apk.ApkPath))

		javaResults, err = s.javaDispatcher.Dispatch(javatests.Options{
			Annotations:  cfg.Annotations,
			TestFilter:   cfg.TestFilter,
			InstallApk:   cfg.InstallApk,
			NumberOfRuns: cfg.NumberOfRuns,
			ShardRetries: cfg.ShardRetries,
			Runner:       cfg.InstrumentationRunner,
			ExtraArgs:    cfg.InstrumentationArgs,
			LogDir:       result.LogDir,
		}, []apkinfo.ApkInfo{apk})
		if err != nil {
			return result, fmt.Errorf("failed to run Java tests: %w", err)
		}
	}

	if cfg.RunPythonTests {
		s.logger.Println()
		s.logger.Infof("Running Python tests")

		var err error
		pythonResults, err = s.pythonDispatcher.Dispatch(pythontests.Options{
			TestRoot:    cfg.PythonTestRoot,
			TestFilter:  cfg.TestFilter,
			Interpreter: cfg.PythonInterpreter,
			LogDir:      result.LogDir,
		})
		if err != nil {
			return result, fmt.Errorf("failed to run Python tests: %w", err)
		}
	}

	result.Results, result.Summary, result.FailingCount = SummarizeResults(s.logger, javaResults, pythonResults, annotationLabel(cfg.Annotations))

	s.logger.Println()
	s.logger.Printf("%s", result.Results.Table("Instrumentation tests"))

	return result, nil
}

// ExportOpts ...
type ExportOpts struct {
	Result

	DeployDir           string
	BuildbotStepFailure bool
}

// Export ...
func (s InstrumentationTestRunner) Export(opts ExportOpts) {
	s.outputExporter.ExportTestRunResult(opts.FailingCount)

	if opts.DeployDir != "" {
		if err := s.outputExporter.ExportSummary(opts.DeployDir, opts.Summary); err != nil {
			s.logger.Warnf("%s", err)
		}

		if opts.LogDir != "" {
			if err := s.outputExporter.ExportTestLogs(opts.DeployDir, opts.LogDir); err != nil {
				s.logger.Warnf("%s", err)
			}
		}
	}

	s.outputExporter.ExportTestResults(opts.Results, opts.BundleName)

	if annotation := buildbotAnnotation(opts.FailingCount, opts.BuildbotStepFailure); annotation != "" {
		s.logger.Printf("%s", annotation)
	}

	if opts.FailingCount > 0 {
		printTestLogsHint(s.logger, opts.DeployDir != "")
	}
}

// Cleanup removes the raw test output of the run, unless it should be kept.
func (s InstrumentationTestRunner) Cleanup(result Result, keepTempFiles bool) {
	s.cleaner.Cleanup(keepTempFiles, result.LogDir)
}
