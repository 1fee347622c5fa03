package main

import (
	"errors"
	"os"

	"github.com/bitrise-io/go-steputils/v2/export"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/urfave/cli/v2"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/adb"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/apkinfo"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/fileremover"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/flags"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/javatests"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/output"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/pythontests"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/step"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/testaddon"
)

const (
	runtimeErrorExitCode = 1
	maxExitCode          = 255
)

func main() {
	app := newApp(log.NewLogger())
	if err := app.Run(os.Args); err != nil {
		os.Exit(runtimeErrorExitCode)
	}
}

func newApp(logger log.Logger) *cli.App {
	app := cli.NewApp()
	app.Name = "android-instrumentation-test"
	app.Usage = "Runs the instrumentation tests of an Android test APK and the host-driven Python tests"
	app.Description = "The exit status is the number of failing tests, or 1 if the tests could not be run."
	app.Flags = flags.Flags
	app.UseShortOptionHandling = true
	app.Action = func(c *cli.Context) error {
		return run(c, logger)
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			logger.Errorf("%s", err)
			cli.HandleExitCoder(cli.Exit("", runtimeErrorExitCode))
		}
	}
	return app
}

func run(c *cli.Context, logger log.Logger) error {
	failingCount, err := dispatch(logger, flags.ReadInput(c))
	if err != nil {
		return err
	}

	if failingCount > 0 {
		return cli.Exit("", exitCode(failingCount))
	}
	return nil
}

func dispatch(logger log.Logger, input step.Input) (int, error) {
	pathChecker := pathutil.NewPathChecker()
	configParser := step.NewInstrumentationTestConfigParser(logger, pathChecker, pathutil.NewPathModifier())

	config, err := configParser.ProcessConfig(input)
	if err != nil {
		return 0, newRuntimeError("process config", err)
	}

	runner := createRunner(logger, config)

	result, err := runner.DispatchInstrumentationTests(config)
	defer runner.Cleanup(result, config.KeepTempFiles)
	if err != nil {
		return 0, newRuntimeError("dispatch tests", err)
	}

	runner.Export(step.ExportOpts{
		Result:              result,
		DeployDir:           config.DeployDir,
		BuildbotStepFailure: config.BuildbotStepFailure,
	})

	return result.FailingCount, nil
}

func createRunner(logger log.Logger, config step.Config) step.InstrumentationTestRunner {
	envRepository := env.NewRepository()
	commandFactory := command.NewFactory(envRepository)
	pathChecker := pathutil.NewPathChecker()
	fileManager := fileutil.NewFileManager()

	apkProvider := apkinfo.NewProvider(logger, commandFactory, pathChecker)
	device := adb.NewDevice(logger, commandFactory, config.Device)
	javaDispatcher := javatests.NewDispatcher(logger, device, fileManager)
	pythonDispatcher := pythontests.NewDispatcher(logger, commandFactory, pathChecker, fileManager)

	testAddonExporter := testaddon.NewExporter(logger, fileManager)
	outputExporter := output.NewExporter(envRepository, logger, fileManager, pathChecker, export.NewExporter(commandFactory, fileManager), testAddonExporter)

	return step.NewInstrumentationTestRunner(logger, apkProvider, javaDispatcher, pythonDispatcher, outputExporter, pathutil.NewPathProvider(), fileremover.NewCleaner(logger, fileManager))
}

// exitCode maps the failing count to a process exit status, a count above 255 would wrap around to success.
func exitCode(failingCount int) int {
	if failingCount > maxExitCode {
		return maxExitCode
	}
	return failingCount
}
