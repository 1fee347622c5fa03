package adb

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/progress"
	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	version "github.com/hashicorp/go-version"
)

var versionPattern = regexp.MustCompile(`Android Debug Bridge version (\d+\.\d+\.\d+)`)

// InstrumentParams ...
type InstrumentParams struct {
	PackageName string
	Runner      string
	Annotations []string
	TestFilter  string
	ExtraArgs   []string
}

// Device ...
type Device interface {
	Version() (*version.Version, error)
	WaitForDevice() error
	Install(apkPath string) error
	Instrument(params InstrumentParams) (string, int, error)
}

type device struct {
	logger         log.Logger
	commandFactory command.Factory
	serial         string
	bootAttempts   uint
	bootWait       time.Duration
}

// NewDevice returns a Device talking to the given serial, or to the only attached device if serial is empty.
func NewDevice(logger log.Logger, commandFactory command.Factory, serial string) Device {
	return &device{
		logger:         logger,
		commandFactory: commandFactory,
		serial:         serial,
		bootAttempts:   10,
		bootWait:       6 * time.Second,
	}
}

func (d device) args(args ...string) []string {
	if d.serial == "" {
		return args
	}
	return append([]string{"-s", d.serial}, args...)
}

func (d device) Version() (*version.Version, error) {
	cmd := d.commandFactory.Create("adb", []string{"version"}, nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to get adb version: %w, output: %s", err, out)
	}
	return parseVersion(out)
}

func parseVersion(out string) (*version.Version, error) {
	match := versionPattern.FindStringSubmatch(out)
	if len(match) != 2 {
		return nil, fmt.Errorf("unexpected adb version output: %s", out)
	}
	return version.NewVersion(match[1])
}

func (d device) WaitForDevice() error {
	cmd := d.commandFactory.Create("adb", d.args("wait-for-device"), nil)
	d.logger.Printf("$ %s", cmd.PrintableCommandArgs())
	if out, err := cmd.RunAndReturnTrimmedCombinedOutput(); err != nil {
		return fmt.Errorf("waiting for device failed: %w, output: %s", err, out)
	}

	return retry.Times(d.bootAttempts).Wait(d.bootWait).Try(func(attempt uint) error {
		cmd := d.commandFactory.Create("adb", d.args("shell", "getprop", "sys.boot_completed"), nil)
		out, err := cmd.RunAndReturnTrimmedCombinedOutput()
		if err != nil {
			d.logger.Warnf("attempt %d to read boot state failed: %s", attempt, err)
			return err
		}
		if strings.TrimSpace(out) != "1" {
			d.logger.Debugf("attempt %d: device has not finished booting", attempt)
			return fmt.Errorf("device boot not completed")
		}
		return nil
	})
}

func (d device) Install(apkPath string) error {
	cmd := d.commandFactory.Create("adb", d.args("install", "-r", apkPath), nil)
	d.logger.Printf("$ %s", cmd.PrintableCommandArgs())

	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to install %s: %w, output: %s", apkPath, err, out)
	}
	// Older adb versions exit with 0 even if the install failed.
	if strings.Contains(out, "Failure") {
		return fmt.Errorf("failed to install %s: %s", apkPath, out)
	}
	return nil
}

// Instrument runs the tests of the package and returns the raw status stream of am instrument.
func (d device) Instrument(params InstrumentParams) (string, int, error) {
	var outBuffer bytes.Buffer

	cmd := d.commandFactory.Create("adb", d.args(instrumentArgs(params)...), &command.Opts{
		Stdout: &outBuffer,
		Stderr: &outBuffer,
	})
	d.logger.Printf("$ %s", cmd.PrintableCommandArgs())

	var (
		exitCode int
		err      error
	)
	progress.SimpleProgress(".", time.Minute, func() {
		exitCode, err = cmd.RunAndReturnExitCode()
	})

	return outBuffer.String(), exitCode, err
}

func instrumentArgs(params InstrumentParams) []string {
	args := []string{"shell", "am", "instrument", "-r", "-w"}
	if len(params.Annotations) > 0 {
		args = append(args, "-e", "annotation", strings.Join(params.Annotations, ","))
	}
	if params.TestFilter != "" {
		args = append(args, "-e", "class", params.TestFilter)
	}
	args = append(args, params.ExtraArgs...)
	return append(args, params.PackageName+"/"+params.Runner)
}
