package dartresult

import "time"

// Report is the parsed result of a single `dart test` run.
type Report struct {
	Timestamp *time.Time
	Success   bool
	Suites    []Suite
}

// Suite holds every result produced by a single test source file.
type Suite struct {
	Path     string
	Platform string
	// AllTests keeps the runner's bookkeeping entries (load, setUpAll,
	// tearDownAll) next to the real test cases, in stream order.
	AllTests []Test
}

// Test is a single executed test within a suite.
type Test struct {
	Name     string
	Duration float64 // milliseconds
	Hidden   bool
	Skipped  bool
	Problems []Problem
	Prints   []string
}

// Problem is a single failure or error raised while running a test.
type Problem struct {
	Message    string
	Stacktrace string
	IsFailure  bool
}

// Tests returns the tests that are reported as test cases.
func (s Suite) Tests() []Test {
	var tests []Test
	for _, t := range s.AllTests {
		if !t.Hidden {
			tests = append(tests, t)
		}
	}
	return tests
}

// SkippedTests returns the reported tests that were skipped.
func (s Suite) SkippedTests() []Test {
	var tests []Test
	for _, t := range s.AllTests {
		if !t.Hidden && t.Skipped {
			tests = append(tests, t)
		}
	}
	return tests
}

// ProblemTests returns the tests with at least one problem, hidden ones
// included.
func (s Suite) ProblemTests() []Test {
	var tests []Test
	for _, t := range s.AllTests {
		if len(t.Problems) > 0 {
			tests = append(tests, t)
		}
	}
	return tests
}
