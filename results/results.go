package results

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const bannerWidth = 80

// TestResult ...
type TestResult struct {
	Name string
	Log  string
}

// Results is the outcome of a test run, every executed test is in exactly one category.
type Results struct {
	Passed  []TestResult
	Failed  []TestResult
	Crashed []TestResult
	Unknown []TestResult
}

// Merge concatenates the same named categories of the given collections, keeping insertion order.
func Merge(collections ...Results) Results {
	var merged Results
	for _, c := range collections {
		merged.Passed = append(merged.Passed, c.Passed...)
		merged.Failed = append(merged.Failed, c.Failed...)
		merged.Crashed = append(merged.Crashed, c.Crashed...)
		merged.Unknown = append(merged.Unknown, c.Unknown...)
	}
	return merged
}

// Broken returns the failed, crashed and unknown tests.
func (r Results) Broken() []TestResult {
	var broken []TestResult
	broken = append(broken, r.Failed...)
	broken = append(broken, r.Crashed...)
	broken = append(broken, r.Unknown...)
	return broken
}

// FailingCount ...
func (r Results) FailingCount() int {
	return len(r.Failed) + len(r.Crashed) + len(r.Unknown)
}

// Total ...
func (r Results) Total() int {
	return len(r.Passed) + r.FailingCount()
}

// Summary returns the one line summary of the run.
func (r Results) Summary(testType, annotation string) string {
	return fmt.Sprintf("%s tests (%s) summary: RAN=%d, PASSED=%d, FAILED=%d, CRASHED=%d, UNKNOWN=%d",
		testType, annotation, r.Total(), len(r.Passed), len(r.Failed), len(r.Crashed), len(r.Unknown))
}

// LogFull logs every broken test with its log, or "Passed" if none of them broke,
// and returns the summary line.
func (r Results) LogFull(logger log.Logger, testType, annotation string) string {
	banner := strings.Repeat("*", bannerWidth)

	logger.Println()
	logger.Printf("%s", banner)
	logger.Infof("Final result")

	logCategory(logger, "Failed:", r.Failed)
	logCategory(logger, "Crashed:", r.Crashed)
	logCategory(logger, "Unknown:", r.Unknown)

	if r.FailingCount() == 0 {
		logger.Donef("Passed")
	}
	logger.Printf("%s", banner)

	summary := r.Summary(testType, annotation)
	if r.FailingCount() > 0 {
		logger.Errorf("%s", summary)
	} else {
		logger.Donef("%s", summary)
	}

	return summary
}

func logCategory(logger log.Logger, title string, tests []TestResult) {
	if len(tests) == 0 {
		return
	}

	logger.Errorf("%s", title)
	for _, t := range sortedByName(tests) {
		logger.Printf("- %s", t.Name)
		if t.Log != "" {
			logger.Printf("%s", t.Log)
		}
	}
}

func sortedByName(tests []TestResult) []TestResult {
	sorted := make([]TestResult, len(tests))
	copy(sorted, tests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// Table renders the per category counts.
func (r Results) Table(title string) string {
	t := table.NewWriter()
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Category", "Tests"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Tests", Align: text.AlignRight},
	})

	t.AppendRow(table.Row{"Passed", len(r.Passed)})
	t.AppendRow(table.Row{"Failed", len(r.Failed)})
	t.AppendRow(table.Row{"Crashed", len(r.Crashed)})
	t.AppendRow(table.Row{"Unknown", len(r.Unknown)})
	t.AppendFooter(table.Row{"Total", r.Total()})

	return t.Render()
}
