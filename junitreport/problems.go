package junitreport

import (
	"fmt"
	"strings"

	"github.com/bitrise-steplib/steps-dart-test-report/dartresult"
	"github.com/bitrise-steplib/steps-dart-test-report/junit"
)

// problemNode renders the problems of a single test as one <failure> or
// <error> element. A lone problem with a single-line message maps directly
// onto the JUnit message attribute, anything more elaborate is folded into a
// combined report in the element body.
func problemNode(problems []dartresult.Problem) junit.Element {
	if len(problems) == 1 && !strings.Contains(problems[0].Message, "\n") {
		p := problems[0]

		tag := "error"
		if p.IsFailure {
			tag = "failure"
		}
		el := junit.Element{Tag: tag}
		el.SetAttr("message", p.Message)
		if p.Stacktrace != "" {
			el.AddChild(junit.Text{Content: p.Stacktrace})
		}
		return el
	}

	return combinedProblemNode(problems)
}

func combinedProblemNode(problems []dartresult.Problem) junit.Element {
	var failures, errors []dartresult.Problem
	for _, p := range problems {
		if p.IsFailure {
			failures = append(failures, p)
		} else {
			errors = append(errors, p)
		}
	}

	var details []string
	for i, p := range failures {
		details = append(details, problemDetail(p, problemLabel("Failure", i, len(failures))))
	}
	for i, p := range errors {
		details = append(details, problemDetail(p, problemLabel("Error", i, len(errors))))
	}

	// A single error outweighs any number of failures for the element tag.
	tag := "failure"
	if len(errors) > 0 {
		tag = "error"
	}

	el := junit.Element{Tag: tag}
	el.SetAttr("message", problemSummary(len(failures), len(errors)))
	el.AddChild(junit.Text{Content: strings.Join(details, "\n\n\n")})
	return el
}

func problemLabel(kind string, index, total int) string {
	if total > 1 {
		return fmt.Sprintf("%s #%d:", kind, index+1)
	}
	return kind + ":"
}

func problemDetail(p dartresult.Problem, label string) string {
	detail := label
	switch {
	case p.Message == "" && p.Stacktrace == "":
		detail += " no details available"
	case p.Message == "":
		// only the stacktrace carries information, appended below
	case strings.Contains(p.Message, "\n"):
		detail += "\n\n" + p.Message
	default:
		detail += " " + p.Message
	}

	// Failure stacktraces are only surfaced when the message is missing,
	// error stacktraces are always kept.
	if p.Stacktrace != "" && (!p.IsFailure || p.Message == "") {
		detail += "\n\nStacktrace:\n" + p.Stacktrace
	}

	return detail
}

func problemSummary(failures, errors int) string {
	var parts []string
	if failures > 0 {
		parts = append(parts, countNoun(failures, "failure"))
	}
	if errors > 0 {
		parts = append(parts, countNoun(errors, "error"))
	}
	parts = append(parts, "see stacktrace for details")
	return strings.Join(parts, ", ")
}

func countNoun(count int, noun string) string {
	if count > 1 {
		return fmt.Sprintf("%d %ss", count, noun)
	}
	return fmt.Sprintf("%d %s", count, noun)
}
