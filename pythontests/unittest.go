package pythontests

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

var (
	// Subtest lines are indented and carry the subtest parameters, e.g. `  test_s (m.C.test_s) (i=1) ... FAIL`.
	progressHeadPattern = regexp.MustCompile(`^\s*(\w+) \(([\w.]+)\)(?: \([^)]*\))?(.*)$`)
	outcomePattern      = regexp.MustCompile(`(ok|FAIL|ERROR|skipped.*|expected failure|unexpected success)$`)
	detailHeadPattern   = regexp.MustCompile(`^(FAIL|ERROR): (\w+) \(([\w.]+)\)`)
)

const (
	separatorDouble = "======================================================================"
	separatorSingle = "----------------------------------------------------------------------"
	outcomeSep      = " ... "
)

type failureDetail struct {
	kind string
	name string
	log  string
}

// qualifiedName returns module.Class.method, python 3.11+ already prints the method inside the parentheses.
func qualifiedName(method, scope string) string {
	if strings.HasSuffix(scope, "."+method) {
		return scope
	}
	return scope + "." + method
}

// parseUnittestOutput sorts the tests of a `python -m unittest -v` run into result categories.
// Failing tests come from the FAIL/ERROR detail blocks, the progress lines only add the rest.
func parseUnittestOutput(raw string) results.Results {
	var r results.Results
	seen := map[string]bool{}

	for _, detail := range parseFailureDetails(raw) {
		seen[detail.name] = true
		test := results.TestResult{Name: detail.name, Log: detail.log}
		if detail.kind == "ERROR" {
			r.Crashed = append(r.Crashed, test)
		} else {
			r.Failed = append(r.Failed, test)
		}
	}

	record := func(name, outcome string) {
		if seen[name] {
			return
		}
		seen[name] = true

		switch {
		case outcome == "ok", outcome == "expected failure", strings.HasPrefix(outcome, "skipped"):
			r.Passed = append(r.Passed, results.TestResult{Name: name})
		case outcome == "FAIL", outcome == "unexpected success":
			r.Failed = append(r.Failed, results.TestResult{Name: name})
		case outcome == "ERROR":
			r.Crashed = append(r.Crashed, results.TestResult{Name: name})
		}
	}

	// The outcome is missing from the head line when a docstring follows it
	// or when the test writes to stdout, it shows up on a later line then.
	var pending string

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == separatorDouble || line == separatorSingle {
			break
		}

		if match := progressHeadPattern.FindStringSubmatch(line); match != nil {
			name := qualifiedName(match[1], match[2])
			pending = ""

			idx := strings.Index(match[3], outcomeSep)
			if idx == -1 {
				pending = name
				continue
			}
			if outcome, ok := findOutcome(match[3][idx+len(outcomeSep):]); ok {
				record(name, outcome)
			} else {
				pending = name
			}
			continue
		}

		if pending == "" {
			continue
		}
		if idx := strings.LastIndex(line, outcomeSep); idx != -1 {
			line = line[idx+len(outcomeSep):]
		}
		if outcome, ok := findOutcome(line); ok {
			record(pending, outcome)
			pending = ""
		}
	}

	return r
}

func findOutcome(text string) (string, bool) {
	match := outcomePattern.FindStringSubmatch(strings.TrimSpace(text))
	if match == nil {
		return "", false
	}
	return match[1], true
}

// parseFailureDetails collects the tracebacks printed after the test run in order of appearance.
// Subtests of the same test share one entry, their tracebacks are joined.
func parseFailureDetails(raw string) []failureDetail {
	var (
		details []failureDetail
		index   = map[string]int{}

		current string
		kind    string
		lines   []string
		inBody  bool
	)
	flush := func() {
		if current != "" {
			log := strings.TrimSpace(strings.Join(lines, "\n"))
			if i, ok := index[current]; ok {
				if log != "" {
					details[i].log = strings.TrimSpace(details[i].log + "\n\n" + log)
				}
			} else {
				index[current] = len(details)
				details = append(details, failureDetail{kind: kind, name: current, log: log})
			}
		}
		current, kind, lines, inBody = "", "", nil, false
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if match := detailHeadPattern.FindStringSubmatch(line); match != nil {
			flush()
			kind = match[1]
			current = qualifiedName(match[2], match[3])
			continue
		}
		if current == "" {
			continue
		}

		switch {
		case line == separatorSingle && !inBody:
			inBody = true
		case line == separatorDouble, line == separatorSingle:
			flush()
		case inBody:
			lines = append(lines, line)
		}
	}
	flush()

	return details
}
