package pythontests

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const verboseUnittestOutput = `test_crash (host_driven.device_test.DeviceTest) ... ERROR
test_fail (host_driven.device_test.DeviceTest) ... FAIL
test_pass (host_driven.device_test.DeviceTest) ... ok
test_skip (host_driven.device_test.DeviceTest) ... skipped 'no device'

======================================================================
ERROR: test_crash (host_driven.device_test.DeviceTest)
----------------------------------------------------------------------
Traceback (most recent call last):
  File "host_driven/device_test.py", line 12, in test_crash
    raise RuntimeError("device lost")
RuntimeError: device lost

======================================================================
FAIL: test_fail (host_driven.device_test.DeviceTest)
----------------------------------------------------------------------
Traceback (most recent call last):
  File "host_driven/device_test.py", line 9, in test_fail
    self.assertEqual(1, 2)
AssertionError: 1 != 2

----------------------------------------------------------------------
Ran 4 tests in 0.002s

FAILED (failures=1, errors=1, skipped=1)
`

func Test_GivenVerboseUnittestOutput_WhenParsed_ThenSortsTestsIntoCategories(t *testing.T) {
	// When
	r := parseUnittestOutput(verboseUnittestOutput)

	// Then
	assert.Equal(t, []results.TestResult{
		{Name: "host_driven.device_test.DeviceTest.test_pass"},
		{Name: "host_driven.device_test.DeviceTest.test_skip"},
	}, r.Passed)
	assert.Equal(t, []results.TestResult{{
		Name: "host_driven.device_test.DeviceTest.test_fail",
		Log:  "Traceback (most recent call last):\n  File \"host_driven/device_test.py\", line 9, in test_fail\n    self.assertEqual(1, 2)\nAssertionError: 1 != 2",
	}}, r.Failed)
	assert.Equal(t, []results.TestResult{{
		Name: "host_driven.device_test.DeviceTest.test_crash",
		Log:  "Traceback (most recent call last):\n  File \"host_driven/device_test.py\", line 12, in test_crash\n    raise RuntimeError(\"device lost\")\nRuntimeError: device lost",
	}}, r.Crashed)
	assert.Empty(t, r.Unknown)
}

func Test_GivenPython311Output_WhenParsed_ThenMethodIsNotDuplicated(t *testing.T) {
	r := parseUnittestOutput("test_pass (device_test.DeviceTest.test_pass) ... ok\n")

	assert.Equal(t, []results.TestResult{{Name: "device_test.DeviceTest.test_pass"}}, r.Passed)
}

const docstringAndPrintingOutput = `test_a (device_test.DeviceTest.test_a) ... ok
test_b (device_test.DeviceTest.test_b)
Checks the screen is unlocked. ... FAIL
test_c (device_test.DeviceTest.test_c) ... hello from test
ok
test_d (device_test.DeviceTest.test_d) ... hello from testok

======================================================================
FAIL: test_b (device_test.DeviceTest.test_b)
Checks the screen is unlocked.
----------------------------------------------------------------------
Traceback (most recent call last):
  File "device_test.py", line 8, in test_b
    self.assertTrue(False)
AssertionError: False is not true

----------------------------------------------------------------------
Ran 4 tests in 0.001s

FAILED (failures=1)
`

func Test_GivenDocstringAndPrintingTests_WhenParsed_ThenEveryTestIsCounted(t *testing.T) {
	// When
	r := parseUnittestOutput(docstringAndPrintingOutput)

	// Then
	assert.Equal(t, []results.TestResult{
		{Name: "device_test.DeviceTest.test_a"},
		{Name: "device_test.DeviceTest.test_c"},
		{Name: "device_test.DeviceTest.test_d"},
	}, r.Passed)
	assert.Equal(t, []results.TestResult{{
		Name: "device_test.DeviceTest.test_b",
		Log:  "Traceback (most recent call last):\n  File \"device_test.py\", line 8, in test_b\n    self.assertTrue(False)\nAssertionError: False is not true",
	}}, r.Failed)
	assert.Empty(t, r.Crashed)
	assert.Equal(t, 4, r.Total())
}

func Test_GivenFailingSubtests_WhenParsed_ThenTestFailsOnceWithEveryTraceback(t *testing.T) {
	// Given
	raw := "test_s (device_test.DeviceTest.test_s) ... \n" +
		"  test_s (device_test.DeviceTest.test_s) (i=1) ... FAIL\n" +
		"  test_s (device_test.DeviceTest.test_s) (i=2) ... ERROR\n" +
		"test_t (device_test.DeviceTest.test_t) ... ok\n" +
		"\n" +
		separatorDouble + "\n" +
		"FAIL: test_s (device_test.DeviceTest.test_s) (i=1)\n" +
		separatorSingle + "\n" +
		"AssertionError: 1 != 0\n" +
		"\n" +
		separatorDouble + "\n" +
		"ERROR: test_s (device_test.DeviceTest.test_s) (i=2)\n" +
		separatorSingle + "\n" +
		"RuntimeError: device lost\n" +
		"\n" +
		separatorSingle + "\n" +
		"Ran 2 tests in 0.001s\n"

	// When
	r := parseUnittestOutput(raw)

	// Then
	assert.Equal(t, []results.TestResult{{Name: "device_test.DeviceTest.test_t"}}, r.Passed)
	assert.Equal(t, []results.TestResult{{
		Name: "device_test.DeviceTest.test_s",
		Log:  "AssertionError: 1 != 0\n\nRuntimeError: device lost",
	}}, r.Failed)
	assert.Empty(t, r.Crashed)
}

func Test_GivenUnexpectedSuccess_WhenParsed_ThenTestFails(t *testing.T) {
	r := parseUnittestOutput("test_flaky (device_test.DeviceTest) ... unexpected success\n")

	assert.Equal(t, []results.TestResult{{Name: "device_test.DeviceTest.test_flaky"}}, r.Failed)
}

func Test_GivenTestTree_WhenDiscovering_ThenReturnsSortedModules(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b_test.py"), "")
	writeFile(t, filepath.Join(root, "host_driven", "a_test.py"), "")
	writeFile(t, filepath.Join(root, "helper.py"), "")

	// When
	modules, err := discoverTestModules(root, "")

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"b_test", "host_driven.a_test"}, modules)
}

func Test_GivenFilter_WhenDiscovering_ThenKeepsMatchingModules(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b_test.py"), "")
	writeFile(t, filepath.Join(root, "host_driven", "a_test.py"), "")

	// When
	modules, err := discoverTestModules(root, "host_driven.*")

	// Then
	require.NoError(t, err)
	assert.Equal(t, []string{"host_driven.a_test"}, modules)
}

func Test_GivenNoTestRoot_WhenDispatching_ThenReturnsEmptyResults(t *testing.T) {
	r, err := newDispatcher().Dispatch(Options{})

	require.NoError(t, err)
	assert.Equal(t, 0, r.Total())
}

func Test_GivenMissingTestRoot_WhenDispatching_ThenFails(t *testing.T) {
	_, err := newDispatcher().Dispatch(Options{TestRoot: filepath.Join(t.TempDir(), "missing")})

	require.Error(t, err)
}

func Test_GivenTestModules_WhenDispatching_ThenRunsEachModule(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device_test.py"), "")
	writeFile(t, filepath.Join(root, "broken_test.py"), "")
	logDir := t.TempDir()

	interpreter := installFakePython(t, map[string]string{
		"device_test": "test_pass (device_test.DeviceTest) ... ok",
		"broken_test": "ImportError: No module named pylib",
	})

	// When
	r, err := newDispatcher().Dispatch(Options{TestRoot: root, Interpreter: interpreter, LogDir: logDir})

	// Then
	require.NoError(t, err)
	assert.Equal(t, []results.TestResult{{Name: "device_test.DeviceTest.test_pass"}}, r.Passed)
	require.Len(t, r.Unknown, 1)
	assert.Equal(t, "broken_test", r.Unknown[0].Name)
	assert.FileExists(t, filepath.Join(logDir, "python-device_test.log"))
}

func Test_GivenDocstringAndPrintingTests_WhenDispatching_ThenFailureIsCounted(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device_test.py"), "")

	interpreter := installFakePython(t, map[string]string{
		"device_test": docstringAndPrintingOutput,
	})

	// When
	r, err := newDispatcher().Dispatch(Options{TestRoot: root, Interpreter: interpreter})

	// Then
	require.NoError(t, err)
	assert.Equal(t, 1, r.FailingCount())
	assert.Equal(t, 4, r.Total())
	assert.Empty(t, r.Unknown)
}

func Test_GivenNonZeroExitWithoutFailures_WhenDispatching_ThenModuleIsUnknown(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device_test.py"), "")

	interpreter := installFakePython(t, map[string]string{
		"device_test": "test_pass (device_test.DeviceTest) ... ok\nSegmentation fault",
	})

	// When
	r, err := newDispatcher().Dispatch(Options{TestRoot: root, Interpreter: interpreter})

	// Then
	require.NoError(t, err)
	assert.Equal(t, []results.TestResult{{Name: "device_test.DeviceTest.test_pass"}}, r.Passed)
	require.Len(t, r.Unknown, 1)
	assert.Equal(t, "device_test", r.Unknown[0].Name)
}

func Test_GivenInterpreterKilledBySignal_WhenDispatching_ThenModuleIsUnknown(t *testing.T) {
	// Given
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device_test.py"), "")

	binDir := t.TempDir()
	interpreter := filepath.Join(binDir, "fakepython")
	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'Python 3.10.12'; exit 0; fi\n" +
		"echo 'test_hang (device_test.DeviceTest) ... ' >&2\n" +
		"kill -9 $$\n"
	require.NoError(t, os.WriteFile(interpreter, []byte(script), 0700))

	// When
	r, err := newDispatcher().Dispatch(Options{TestRoot: root, Interpreter: interpreter})

	// Then
	require.NoError(t, err)
	require.Len(t, r.Unknown, 1)
	assert.Equal(t, "device_test", r.Unknown[0].Name)
}

// Helpers

func newDispatcher() Dispatcher {
	return NewDispatcher(log.NewLogger(), command.NewFactory(env.NewRepository()), pathutil.NewPathChecker(), fileutil.NewFileManager())
}

func writeFile(t *testing.T, pth, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0700))
	require.NoError(t, os.WriteFile(pth, []byte(content), 0600))
}

// installFakePython writes an interpreter which prints the given output for each module,
// it exits with 0 for modules whose output ends with a passing test and with 1 otherwise.
func installFakePython(t *testing.T, outputs map[string]string) string {
	binDir := t.TempDir()

	script := "#!/bin/sh\n" +
		"if [ \"$1\" = \"--version\" ]; then echo 'Python 3.10.12'; exit 0; fi\n" +
		"case \"$4\" in\n"
	for module, output := range outputs {
		exitCode := "1"
		if strings.HasSuffix(output, "... ok") {
			exitCode = "0"
		}
		outputPth := filepath.Join(binDir, module+".out")
		writeFile(t, outputPth, output)
		script += "  " + module + ") cat '" + outputPth + "' >&2; exit " + exitCode + ";;\n"
	}
	script += "esac\nexit 2\n"

	interpreter := filepath.Join(binDir, "fakepython")
	require.NoError(t, os.WriteFile(interpreter, []byte(script), 0700))
	return interpreter
}
