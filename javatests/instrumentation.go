package javatests

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

const (
	statusPrefix     = "INSTRUMENTATION_STATUS: "
	statusCodePrefix = "INSTRUMENTATION_STATUS_CODE: "
	resultPrefix     = "INSTRUMENTATION_RESULT: "
	codePrefix       = "INSTRUMENTATION_CODE: "
	failedPrefix     = "INSTRUMENTATION_FAILED: "
)

// Status codes reported by the instrumentation test runner.
const (
	statusStart      = 1
	statusOK         = 0
	statusError      = -1
	statusFailure    = -2
	statusIgnored    = -3
	statusAssumption = -4
)

type status struct {
	code   int
	bundle map[string]string
}

// instrumentationOutput is the parsed form of `am instrument -r`.
type instrumentationOutput struct {
	statuses []status
	result   map[string]string
	finished bool
	failure  string
}

func parseInstrumentationOutput(raw string) instrumentationOutput {
	out := instrumentationOutput{result: map[string]string{}}

	bundle := map[string]string{}
	var lastBundle map[string]string
	var lastKey string

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.HasPrefix(line, statusCodePrefix):
			code, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, statusCodePrefix)))
			if err != nil {
				continue
			}
			out.statuses = append(out.statuses, status{code: code, bundle: bundle})
			bundle = map[string]string{}
			lastBundle, lastKey = nil, ""
		case strings.HasPrefix(line, statusPrefix):
			lastKey = setKeyValue(bundle, strings.TrimPrefix(line, statusPrefix))
			lastBundle = bundle
		case strings.HasPrefix(line, resultPrefix):
			lastKey = setKeyValue(out.result, strings.TrimPrefix(line, resultPrefix))
			lastBundle = out.result
		case strings.HasPrefix(line, codePrefix):
			out.finished = true
			lastBundle, lastKey = nil, ""
		case strings.HasPrefix(line, failedPrefix):
			out.failure = strings.TrimPrefix(line, failedPrefix)
			lastBundle, lastKey = nil, ""
		default:
			// continuation of a multi-line value, e.g. a stack trace
			if lastBundle != nil && lastKey != "" {
				lastBundle[lastKey] += "\n" + line
			}
		}
	}

	return out
}

func setKeyValue(bundle map[string]string, kv string) string {
	key, value, _ := strings.Cut(kv, "=")
	bundle[key] = value
	return key
}

func testName(bundle map[string]string) string {
	return fmt.Sprintf("%s#%s", bundle["class"], bundle["test"])
}

// toResults sorts the tests of a single instrumentation run into result categories.
// A test which started but never reported an end is considered crashed.
func (o instrumentationOutput) toResults(packageName, raw string) results.Results {
	var r results.Results

	var started []string
	ended := map[string]bool{}

	for _, s := range o.statuses {
		name := testName(s.bundle)
		switch s.code {
		case statusStart:
			started = append(started, name)
			continue
		case statusOK, statusIgnored, statusAssumption:
			r.Passed = append(r.Passed, results.TestResult{Name: name})
		case statusError, statusFailure:
			r.Failed = append(r.Failed, results.TestResult{Name: name, Log: strings.TrimSpace(s.bundle["stack"])})
		default:
			r.Unknown = append(r.Unknown, results.TestResult{Name: name, Log: fmt.Sprintf("unexpected status code: %d", s.code)})
		}
		ended[name] = true
	}

	crashLog := strings.TrimSpace(o.result["shortMsg"])
	if crashLog == "" {
		crashLog = o.failure
	}
	for _, name := range started {
		if !ended[name] {
			r.Crashed = append(r.Crashed, results.TestResult{Name: name, Log: crashLog})
		}
	}

	if len(o.statuses) == 0 && (!o.finished || o.failure != "") {
		r.Unknown = append(r.Unknown, results.TestResult{Name: packageName, Log: strings.TrimSpace(raw)})
	}

	return r
}
