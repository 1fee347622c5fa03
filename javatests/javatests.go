package javatests

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	version "github.com/hashicorp/go-version"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/adb"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/apkinfo"
	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const minSupportedAdbVersion = "1.0.31"

// Options ...
type Options struct {
	Annotations  []string
	TestFilter   string
	InstallApk   bool
	NumberOfRuns int
	ShardRetries int
	Runner       string
	ExtraArgs    []string
	// LogDir receives the raw instrumentation output of every run.
	LogDir string
}

// Dispatcher runs the Java instrumentation tests.
type Dispatcher interface {
	Dispatch(opts Options, apks []apkinfo.ApkInfo) (results.Results, error)
}

type dispatcher struct {
	logger      log.Logger
	device      adb.Device
	fileManager fileutil.FileManager
}

// NewDispatcher ...
func NewDispatcher(logger log.Logger, device adb.Device, fileManager fileutil.FileManager) Dispatcher {
	return &dispatcher{
		logger:      logger,
		device:      device,
		fileManager: fileManager,
	}
}

// Dispatch ...
func (d dispatcher) Dispatch(opts Options, apks []apkinfo.ApkInfo) (results.Results, error) {
	if err := d.checkAdbVersion(); err != nil {
		return results.Results{}, err
	}

	if err := d.device.WaitForDevice(); err != nil {
		return results.Results{}, err
	}

	numberOfRuns := opts.NumberOfRuns
	if numberOfRuns < 1 {
		numberOfRuns = 1
	}

	var all []results.Results
	for _, apk := range apks {
		d.logger.Println()
		d.logger.Infof("Running Java tests of %s", apk.PackageName)

		if opts.InstallApk {
			if err := d.device.Install(apk.ApkPath); err != nil {
				return results.Results{}, err
			}
		}

		for run := 1; run <= numberOfRuns; run++ {
			r, err := d.runInstrumentation(opts, apk, "", fmt.Sprintf("%s-run%d.log", apk.PackageName, run))
			if err != nil {
				return results.Results{}, err
			}

			r, err = d.retryFailed(opts, apk, r)
			if err != nil {
				return results.Results{}, err
			}

			all = append(all, r)
		}
	}

	return results.Merge(all...), nil
}

func (d dispatcher) checkAdbVersion() error {
	adbVersion, err := d.device.Version()
	if err != nil {
		return fmt.Errorf("failed to determine adb version: %w", err)
	}
	d.logger.Printf("- adb version: %s", adbVersion.String())

	minVersion := version.Must(version.NewVersion(minSupportedAdbVersion))
	if adbVersion.LessThan(minVersion) {
		return fmt.Errorf("adb version (%s) is less than the minimum supported: %s", adbVersion, minSupportedAdbVersion)
	}
	return nil
}

func (d dispatcher) runInstrumentation(opts Options, apk apkinfo.ApkInfo, testFilter, logName string) (results.Results, error) {
	params := adb.InstrumentParams{
		PackageName: apk.PackageName,
		Runner:      opts.Runner,
		Annotations: opts.Annotations,
		TestFilter:  opts.TestFilter,
		ExtraArgs:   opts.ExtraArgs,
	}
	if testFilter != "" {
		params.TestFilter = testFilter
	}

	raw, err := d.instrument(params, true)
	if err != nil {
		return results.Results{}, err
	}

	d.saveRawOutput(opts.LogDir, logName, raw)

	return parseInstrumentationOutput(raw).toResults(apk.PackageName, raw), nil
}

func (d dispatcher) instrument(params adb.InstrumentParams, retryOnDeviceError bool) (string, error) {
	raw, exitCode, err := d.device.Instrument(params)
	if exitCode == -1 && err != nil {
		return "", fmt.Errorf("failed to run instrumentation: %w", err)
	}
	if err != nil {
		d.logger.Warnf("Instrumentation exited with code %d: %s", exitCode, err)
	}

	if reason, found := findDeviceError(raw); found {
		d.logger.Warnf("Automatic retry reason found in log: %s", reason)
		if !retryOnDeviceError {
			d.logger.Errorf("Automatic retry already used, no more retry")
			return raw, nil
		}

		d.logger.Printf("Waiting for the device and retrying...")
		if err := d.device.WaitForDevice(); err != nil {
			return "", err
		}
		return d.instrument(params, false)
	}

	return raw, nil
}

// retryFailed runs each failed test again, a test which passes on retry is moved to the passed ones.
func (d dispatcher) retryFailed(opts Options, apk apkinfo.ApkInfo, r results.Results) (results.Results, error) {
	for attempt := 1; attempt <= opts.ShardRetries && len(r.Failed) > 0; attempt++ {
		d.logger.Warnf("Retrying %d failed test(s), attempt %d/%d", len(r.Failed), attempt, opts.ShardRetries)

		var stillFailing []results.TestResult
		for _, failed := range r.Failed {
			logName := fmt.Sprintf("%s-retry%d-%s.log", apk.PackageName, attempt, failed.Name)
			retried, err := d.runInstrumentation(opts, apk, failed.Name, logName)
			if err != nil {
				return results.Results{}, err
			}

			if len(retried.Passed) > 0 && retried.FailingCount() == 0 {
				d.logger.Donef("%s passed on retry", failed.Name)
				r.Passed = append(r.Passed, results.TestResult{Name: failed.Name})
				continue
			}

			if broken := retried.Broken(); len(broken) > 0 {
				failed.Log = broken[0].Log
			}
			stillFailing = append(stillFailing, failed)
		}
		r.Failed = stillFailing
	}

	return r, nil
}

func (d dispatcher) saveRawOutput(logDir, name, raw string) {
	if logDir == "" {
		return
	}

	pth := filepath.Join(logDir, name)
	if err := d.fileManager.Write(pth, raw, 0600); err != nil {
		d.logger.Warnf("Failed to save instrumentation output to %s: %s", pth, err)
	}
}
