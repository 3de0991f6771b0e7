package dartresult

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const maxLineSize = 4 * 1024 * 1024

// Parse reads a `dart test --reporter json` event stream and builds the
// in-memory result model. The stream only carries times relative to the run
// start, so the report timestamp is taken from startedAt.
func Parse(r io.Reader, startedAt time.Time) (Report, error) {
	p := parser{
		suiteIdx: map[int]int{},
		testRef:  map[int]testRef{},
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := p.consume([]byte(text)); err != nil {
			return Report{}, errors.Wrapf(err, "line %d", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Report{}, errors.Wrap(err, "failed to read event stream")
	}

	if !p.started {
		return Report{}, errors.New("not a dart test json report: no start event found")
	}

	timestamp := startedAt
	p.report.Timestamp = &timestamp
	return p.report, nil
}

type testRef struct {
	suite   int
	test    int
	startMS int64
}

type parser struct {
	started  bool
	report   Report
	suiteIdx map[int]int
	testRef  map[int]testRef
}

func (p *parser) consume(data []byte) error {
	var head event
	if err := json.Unmarshal(data, &head); err != nil {
		return errors.Wrap(err, "malformed event")
	}

	switch head.Type {
	case "start":
		p.started = true
	case "suite":
		var e suiteEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed suite event")
		}
		p.suiteIdx[e.Suite.ID] = len(p.report.Suites)
		p.report.Suites = append(p.report.Suites, Suite{
			Path:     e.Suite.Path,
			Platform: e.Suite.Platform,
		})
	case "testStart":
		var e testStartEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed testStart event")
		}
		idx, ok := p.suiteIdx[e.Test.SuiteID]
		if !ok {
			return errors.Errorf("test %d refers to unknown suite %d", e.Test.ID, e.Test.SuiteID)
		}
		suite := &p.report.Suites[idx]
		p.testRef[e.Test.ID] = testRef{suite: idx, test: len(suite.AllTests), startMS: head.Time}
		suite.AllTests = append(suite.AllTests, Test{
			Name:    e.Test.Name,
			Skipped: e.Test.Metadata.Skip,
		})
	case "print":
		var e printEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed print event")
		}
		test, err := p.lookup(e.TestID)
		if err != nil {
			return err
		}
		test.Prints = append(test.Prints, e.Message)
	case "error":
		var e errorEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed error event")
		}
		test, err := p.lookup(e.TestID)
		if err != nil {
			return err
		}
		test.Problems = append(test.Problems, Problem{
			Message:    e.Error,
			Stacktrace: e.StackTrace,
			IsFailure:  e.IsFailure,
		})
	case "testDone":
		var e testDoneEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed testDone event")
		}
		ref, ok := p.testRef[e.TestID]
		if !ok {
			return errors.Errorf("testDone event refers to unknown test %d", e.TestID)
		}
		test := &p.report.Suites[ref.suite].AllTests[ref.test]
		test.Hidden = e.Hidden
		if e.Skipped {
			test.Skipped = true
		}
		test.Duration = float64(head.Time - ref.startMS)
	case "done":
		var e doneEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return errors.Wrap(err, "malformed done event")
		}
		p.report.Success = e.Success
	default:
		// group, allSuites, debug and future event types don't affect the report
	}

	return nil
}

func (p *parser) lookup(testID int) (*Test, error) {
	ref, ok := p.testRef[testID]
	if !ok {
		return nil, errors.Errorf("event refers to unknown test %d", testID)
	}
	return &p.report.Suites[ref.suite].AllTests[ref.test], nil
}
