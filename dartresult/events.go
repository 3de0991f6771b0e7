package dartresult

// Wire types of the `dart test --reporter json` protocol. Every line of the
// stream is one JSON object with a "type" discriminator and a "time" value in
// milliseconds since the start event.

type event struct {
	Type string `json:"type"`
	Time int64  `json:"time"`
}

type suiteEvent struct {
	Suite struct {
		ID       int    `json:"id"`
		Platform string `json:"platform"`
		Path     string `json:"path"`
	} `json:"suite"`
}

type testStartEvent struct {
	Test struct {
		ID       int    `json:"id"`
		Name     string `json:"name"`
		SuiteID  int    `json:"suiteID"`
		Metadata struct {
			Skip bool `json:"skip"`
		} `json:"metadata"`
	} `json:"test"`
}

type printEvent struct {
	TestID  int    `json:"testID"`
	Message string `json:"message"`
}

type errorEvent struct {
	TestID     int    `json:"testID"`
	Error      string `json:"error"`
	StackTrace string `json:"stackTrace"`
	IsFailure  bool   `json:"isFailure"`
}

type testDoneEvent struct {
	TestID  int    `json:"testID"`
	Result  string `json:"result"`
	Skipped bool   `json:"skipped"`
	Hidden  bool   `json:"hidden"`
}

type doneEvent struct {
	Success bool `json:"success"`
}
