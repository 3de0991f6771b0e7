package junitreport

import (
	"strconv"
	"strings"
	"time"

	"github.com/bitrise-steplib/steps-dart-test-report/dartresult"
	"github.com/bitrise-steplib/steps-dart-test-report/junit"
)

// Builder turns a parsed dart test report into a JUnit XML element tree.
// Base is stripped from suite paths when deriving class names. Package is
// accepted for command line compatibility and does not influence the output.
type Builder struct {
	Base    string
	Package string
}

// Build returns the <testsuites> element of the report.
func (b Builder) Build(report dartresult.Report) junit.Element {
	root := junit.Element{Tag: "testsuites"}
	for _, suite := range report.Suites {
		root.AddChild(b.buildSuite(suite, report.Timestamp))
	}
	return root
}

func (b Builder) buildSuite(suite dartresult.Suite, timestamp *time.Time) junit.Element {
	className := Classify(suite.Path, b.Base)

	// Hidden tests (load, setUpAll, tearDownAll) are not reported as cases,
	// their output belongs to the suite itself.
	var hiddenPrints []string
	var cases []junit.Node
	for _, test := range suite.AllTests {
		if test.Hidden {
			hiddenPrints = append(hiddenPrints, test.Prints...)
			continue
		}
		cases = append(cases, buildCase(test, className))
	}

	errors, failures := countProblems(suite)

	el := junit.Element{Tag: "testsuite"}
	el.SetAttr("errors", strconv.Itoa(errors))
	el.SetAttr("failures", strconv.Itoa(failures))
	el.SetAttr("tests", strconv.Itoa(len(suite.Tests())))
	el.SetAttr("skipped", strconv.Itoa(len(suite.SkippedTests())))
	el.SetAttr("name", className)
	if timestamp != nil {
		el.SetAttr("timestamp", formatTimestamp(*timestamp))
	}

	if suite.Platform != "" {
		property := junit.Element{Tag: "property"}
		property.SetAttr("name", "platform")
		property.SetAttr("value", suite.Platform)

		properties := junit.Element{Tag: "properties"}
		properties.AddChild(property)
		el.AddChild(properties)
	}

	for _, c := range cases {
		el.AddChild(c)
	}

	if len(hiddenPrints) > 0 {
		out := junit.Element{Tag: "system-out"}
		out.AddChild(junit.Text{Content: strings.Join(hiddenPrints, "\n")})
		el.AddChild(out)
	}

	return el
}

func buildCase(test dartresult.Test, className string) junit.Element {
	el := junit.Element{Tag: "testcase"}
	el.SetAttr("classname", className)
	el.SetAttr("name", test.Name)
	el.SetAttr("time", formatDuration(test.Duration))

	if test.Skipped {
		el.AddChild(junit.Element{Tag: "skipped"})
	}
	if len(test.Problems) > 0 {
		el.AddChild(problemNode(test.Problems))
	}
	if len(test.Prints) > 0 {
		out := junit.Element{Tag: "system-out"}
		out.AddChild(junit.Text{Content: strings.Join(test.Prints, "\n")})
		el.AddChild(out)
	}

	return el
}

// countProblems tallies the problem-bearing tests of a suite: a test counts
// as an error when at least one of its problems is not an assertion failure.
// Hidden tests count too.
func countProblems(suite dartresult.Suite) (errors, failures int) {
	for _, test := range suite.ProblemTests() {
		if hasError(test.Problems) {
			errors++
		} else {
			failures++
		}
	}
	return errors, failures
}

func hasError(problems []dartresult.Problem) bool {
	for _, p := range problems {
		if !p.IsFailure {
			return true
		}
	}
	return false
}
