package flags

import (
	"github.com/urfave/cli/v2"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/step"
)

// EnvVarPrefix is prepended to the env var fallback of every flag.
const EnvVarPrefix = "INSTRUMENTATION_TEST"

func prefixEnvVar(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	TestApk = &cli.StringFlag{
		Name:    "test-apk",
		EnvVars: prefixEnvVar("TEST_APK"),
		Usage:   "The test APK, either a path or a name in the build output (eg. 'ContentShellTest')",
	}
	JavaOnly = &cli.BoolFlag{
		Name:    "java-only",
		Aliases: []string{"j"},
		EnvVars: prefixEnvVar("JAVA_ONLY"),
		Usage:   "Run only the Java tests",
	}
	PythonOnly = &cli.BoolFlag{
		Name:    "python-only",
		Aliases: []string{"p"},
		EnvVars: prefixEnvVar("PYTHON_ONLY"),
		Usage:   "Run only the host-driven Python tests",
	}
	Annotation = &cli.StringFlag{
		Name:    "annotation",
		Aliases: []string{"A"},
		EnvVars: prefixEnvVar("ANNOTATION"),
		Usage:   "Space separated test size annotations to run, defaults to 'Smoke SmallTest MediumTest LargeTest' without a test filter",
	}
	TestFilter = &cli.StringFlag{
		Name:    "test-filter",
		Aliases: []string{"f"},
		EnvVars: prefixEnvVar("TEST_FILTER"),
		Usage:   "Test filter, a class or class#method for Java tests and a module glob for Python tests",
	}
	InstallApk = &cli.BoolFlag{
		Name:    "install-apk",
		Aliases: []string{"I"},
		EnvVars: prefixEnvVar("INSTALL_APK"),
		Usage:   "Install the test APK before running the tests",
	}
	RunCount = &cli.IntFlag{
		Name:    "run-count",
		Aliases: []string{"n"},
		Value:   1,
		EnvVars: prefixEnvVar("RUN_COUNT"),
		Usage:   "How many times the tests are run",
	}
	ShardRetries = &cli.IntFlag{
		Name:    "shard-retries",
		Value:   1,
		EnvVars: prefixEnvVar("SHARD_RETRIES"),
		Usage:   "How many times failed tests are retried",
	}
	Device = &cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		EnvVars: prefixEnvVar("DEVICE"),
		Usage:   "Serial of the device to run the tests on, the single attached device is used when empty",
	}
	PythonTestRoot = &cli.StringFlag{
		Name:    "python-test-root",
		EnvVars: prefixEnvVar("PYTHON_TEST_ROOT"),
		Usage:   "Root of the host-driven Python tests",
	}
	PythonInterpreter = &cli.StringFlag{
		Name:    "python-interpreter",
		Value:   "python3",
		EnvVars: prefixEnvVar("PYTHON_INTERPRETER"),
		Usage:   "Python interpreter running the host-driven tests",
	}
	BuildType = &cli.StringFlag{
		Name:    "build-type",
		Value:   "Debug",
		EnvVars: prefixEnvVar("BUILD_TYPE"),
		Usage:   "Build type directory of the test APK in the build output (eg. 'Debug', 'Release')",
	}
	OutDir = &cli.StringFlag{
		Name:    "out-dir",
		Value:   "out",
		EnvVars: prefixEnvVar("OUT_DIR"),
		Usage:   "Build output directory",
	}
	InstrumentationRunner = &cli.StringFlag{
		Name:    "instrumentation-runner",
		Value:   "android.test.InstrumentationTestRunner",
		EnvVars: prefixEnvVar("RUNNER"),
		Usage:   "Instrumentation runner class",
	}
	InstrumentationArgs = &cli.StringFlag{
		Name:    "instrumentation-args",
		EnvVars: prefixEnvVar("ARGS"),
		Usage:   "Additional 'am instrument' arguments (eg. '-e size small')",
	}
	BuildbotStepFailure = &cli.BoolFlag{
		Name:    "buildbot-step-failure",
		EnvVars: prefixEnvVar("BUILDBOT_STEP_FAILURE"),
		Usage:   "Mark the buildbot step as failed instead of warned on failing tests",
	}
	DeployDir = &cli.StringFlag{
		Name:    "deploy-dir",
		EnvVars: []string{"BITRISE_DEPLOY_DIR"},
		Usage:   "Directory receiving the test summary and the raw test output",
	}
	KeepTempFiles = &cli.BoolFlag{
		Name:    "keep-temp-files",
		EnvVars: prefixEnvVar("KEEP_TEMP_FILES"),
		Usage:   "Keep the raw test output after the run",
	}
	Verbose = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Verbose output, given twice enables debug logs",
	}
)

// Flags ...
var Flags = []cli.Flag{
	TestApk,
	JavaOnly,
	PythonOnly,
	Annotation,
	TestFilter,
	InstallApk,
	RunCount,
	ShardRetries,
	Device,
	PythonTestRoot,
	PythonInterpreter,
	BuildType,
	OutDir,
	InstrumentationRunner,
	InstrumentationArgs,
	BuildbotStepFailure,
	DeployDir,
	KeepTempFiles,
	Verbose,
}

// ReadInput collects the flag values of the invocation.
func ReadInput(c *cli.Context) step.Input {
	return step.Input{
		TestApk:    c.String(TestApk.Name),
		JavaOnly:   c.Bool(JavaOnly.Name),
		PythonOnly: c.Bool(PythonOnly.Name),

		Annotation: c.String(Annotation.Name),
		TestFilter: c.String(TestFilter.Name),

		InstallApk:   c.Bool(InstallApk.Name),
		NumberOfRuns: c.Int(RunCount.Name),
		ShardRetries: c.Int(ShardRetries.Name),
		Device:       c.String(Device.Name),

		PythonTestRoot:    c.String(PythonTestRoot.Name),
		PythonInterpreter: c.String(PythonInterpreter.Name),

		BuildType: c.String(BuildType.Name),
		OutDir:    c.String(OutDir.Name),

		InstrumentationRunner: c.String(InstrumentationRunner.Name),
		InstrumentationArgs:   c.String(InstrumentationArgs.Name),

		BuildbotStepFailure: c.Bool(BuildbotStepFailure.Name),
		DeployDir:           c.String(DeployDir.Name),
		KeepTempFiles:       c.Bool(KeepTempFiles.Name),
		VerboseCount:        c.Count(Verbose.Name),
	}
}
