package pythontests

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	version "github.com/hashicorp/go-version"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const (
	minSupportedPythonVersion = "3.6"
	testFileSuffix            = "_test.py"
)

var pythonVersionPattern = regexp.MustCompile(`Python (\d+\.\d+(?:\.\d+)?)`)

// Options ...
type Options struct {
	TestRoot    string
	TestFilter  string
	Interpreter string
	LogDir      string
}

// Dispatcher runs the Python driven tests.
type Dispatcher interface {
	Dispatch(opts Options) (results.Results, error)
}

type dispatcher struct {
	logger         log.Logger
	commandFactory command.Factory
	pathChecker    pathutil.PathChecker
	fileManager    fileutil.FileManager
}

// NewDispatcher ...
func NewDispatcher(logger log.Logger, commandFactory command.Factory, pathChecker pathutil.PathChecker, fileManager fileutil.FileManager) Dispatcher {
	return &dispatcher{
		logger:         logger,
		commandFactory: commandFactory,
		pathChecker:    pathChecker,
		fileManager:    fileManager,
	}
}

// Dispatch ...
func (d dispatcher) Dispatch(opts Options) (results.Results, error) {
	if opts.TestRoot == "" {
		d.logger.Warnf("No Python test root given, skipping Python tests")
		return results.Results{}, nil
	}

	if exists, err := d.pathChecker.IsDirExists(opts.TestRoot); err != nil {
		return results.Results{}, fmt.Errorf("failed to check Python test root: %w", err)
	} else if !exists {
		return results.Results{}, fmt.Errorf("Python test root does not exist: %s", opts.TestRoot)
	}

	modules, err := discoverTestModules(opts.TestRoot, opts.TestFilter)
	if err != nil {
		return results.Results{}, err
	}
	if len(modules) == 0 {
		d.logger.Warnf("No Python tests found in %s", opts.TestRoot)
		return results.Results{}, nil
	}

	interpreter := opts.Interpreter
	if interpreter == "" {
		interpreter = "python3"
	}
	if err := d.checkInterpreterVersion(interpreter); err != nil {
		return results.Results{}, err
	}

	var all []results.Results
	for _, module := range modules {
		r, err := d.runModule(opts, interpreter, module)
		if err != nil {
			return results.Results{}, err
		}
		all = append(all, r)
	}

	return results.Merge(all...), nil
}

func (d dispatcher) checkInterpreterVersion(interpreter string) error {
	cmd := d.commandFactory.Create(interpreter, []string{"--version"}, nil)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w, output: %s", interpreter, err, out)
	}

	match := pythonVersionPattern.FindStringSubmatch(out)
	if len(match) != 2 {
		return fmt.Errorf("unexpected %s version output: %s", interpreter, out)
	}

	pythonVersion, err := version.NewVersion(match[1])
	if err != nil {
		return fmt.Errorf("failed to parse Python version (%s): %w", match[1], err)
	}
	d.logger.Printf("- python version: %s", pythonVersion.String())

	if pythonVersion.LessThan(version.Must(version.NewVersion(minSupportedPythonVersion))) {
		return fmt.Errorf("Python version (%s) is less than the minimum supported: %s", pythonVersion, minSupportedPythonVersion)
	}
	return nil
}

func (d dispatcher) runModule(opts Options, interpreter, module string) (results.Results, error) {
	var outBuffer bytes.Buffer

	cmd := d.commandFactory.Create(interpreter, []string{"-m", "unittest", "-v", module}, &command.Opts{
		Stdout: &outBuffer,
		Stderr: &outBuffer,
		Dir:    opts.TestRoot,
	})
	d.logger.Printf("$ %s", cmd.PrintableCommandArgs())

	exitCode, err := cmd.RunAndReturnExitCode()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return results.Results{}, fmt.Errorf("failed to run Python test %s: %w", module, err)
	}

	raw := outBuffer.String()
	d.saveRawOutput(opts.LogDir, "python-"+module+".log", raw)

	r := parseUnittestOutput(raw)
	if exitCode != 0 && r.FailingCount() == 0 {
		r.Unknown = append(r.Unknown, results.TestResult{Name: module, Log: strings.TrimSpace(raw)})
	}
	return r, nil
}

func (d dispatcher) saveRawOutput(logDir, name, raw string) {
	if logDir == "" {
		return
	}

	pth := filepath.Join(logDir, name)
	if err := d.fileManager.Write(pth, raw, 0600); err != nil {
		d.logger.Warnf("Failed to save Python test output to %s: %s", pth, err)
	}
}

// discoverTestModules returns the dotted module names of the test files under root, sorted.
func discoverTestModules(root, filter string) ([]string, error) {
	var modules []string
	err := filepath.WalkDir(root, func(pth string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), testFileSuffix) {
			return nil
		}

		rel, err := filepath.Rel(root, pth)
		if err != nil {
			return err
		}
		module := strings.ReplaceAll(strings.TrimSuffix(filepath.ToSlash(rel), ".py"), "/", ".")

		if filter != "" {
			if matched, err := path.Match(filter, module); err != nil {
				return fmt.Errorf("invalid test filter (%s): %w", filter, err)
			} else if !matched {
				return nil
			}
		}

		modules = append(modules, module)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover Python tests in %s: %w", root, err)
	}

	sort.Strings(modules)
	return modules, nil
}
