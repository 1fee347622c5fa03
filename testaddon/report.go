package testaddon

import (
	"encoding/xml"
	"strings"

	"github.com/acarl005/stripansi"

	"github.com/bitrise-steplib/steps-android-instrumentation-test/results"
)

// testReport is a JUnit report with a single suite.
type testReport struct {
	XMLName    xml.Name    `xml:"testsuites"`
	TestSuites []testSuite `xml:"testsuite"`
}

type testSuite struct {
	Name      string     `xml:"name,attr"`
	Tests     int        `xml:"tests,attr"`
	Failures  int        `xml:"failures,attr"`
	Errors    int        `xml:"errors,attr"`
	TestCases []testCase `xml:"testcase"`
}

type testCase struct {
	Name      string   `xml:"name,attr"`
	ClassName string   `xml:"classname,attr"`
	Failure   *message `xml:"failure,omitempty"`
	Error     *message `xml:"error,omitempty"`
}

type message struct {
	Message string `xml:"message,attr,omitempty"`
	Value   string `xml:",chardata"`
}

func newTestReport(suiteName string, r results.Results) testReport {
	suite := testSuite{
		Name:     suiteName,
		Tests:    r.Total(),
		Failures: len(r.Failed),
		Errors:   len(r.Crashed) + len(r.Unknown),
	}

	for _, t := range r.Passed {
		suite.TestCases = append(suite.TestCases, newTestCase(t))
	}
	for _, t := range r.Failed {
		tc := newTestCase(t)
		tc.Failure = &message{Message: "failed", Value: stripansi.Strip(t.Log)}
		suite.TestCases = append(suite.TestCases, tc)
	}
	for _, t := range r.Crashed {
		tc := newTestCase(t)
		tc.Error = &message{Message: "crashed", Value: stripansi.Strip(t.Log)}
		suite.TestCases = append(suite.TestCases, tc)
	}
	for _, t := range r.Unknown {
		tc := newTestCase(t)
		tc.Error = &message{Message: "unknown", Value: stripansi.Strip(t.Log)}
		suite.TestCases = append(suite.TestCases, tc)
	}

	return testReport{TestSuites: []testSuite{suite}}
}

// newTestCase splits Java (pkg.Class#method) and Python (pkg.module.Class.method) style names.
func newTestCase(t results.TestResult) testCase {
	if className, method, found := strings.Cut(t.Name, "#"); found {
		return testCase{Name: method, ClassName: className}
	}
	if i := strings.LastIndex(t.Name, "."); i > 0 {
		return testCase{Name: t.Name[i+1:], ClassName: t.Name[:i]}
	}
	return testCase{Name: t.Name}
}
