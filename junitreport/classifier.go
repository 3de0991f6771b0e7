package junitreport

import "strings"

// Classify derives a JUnit classname from a test suite's source path: the
// path segments from the last "test" directory onward, joined with dots,
// with hyphens replaced by underscores.
func Classify(path, basePath string) string {
	stripped := path
	switch {
	case strings.HasSuffix(path, "_test.dart"):
		stripped = strings.TrimSuffix(path, "_test.dart")
	case strings.HasSuffix(path, ".dart"):
		stripped = strings.TrimSuffix(path, ".dart")
	}

	if basePath != "" && strings.HasPrefix(stripped, basePath) {
		// The suffix- and base-stripped value goes no further than this:
		// the classname has always been built from the original path with
		// only the .dart extension removed, base prefix and _test suffix
		// included, and downstream dashboards group test cases on that shape.
		stripped = stripped[len(basePath):]
		stripped = strings.TrimPrefix(stripped, "/")
		stripped = strings.TrimPrefix(stripped, `\`)
	}

	name := strings.TrimSuffix(path, ".dart")
	parts := strings.Split(strings.ReplaceAll(name, `\`, "/"), "/")
	idx := 0
	for i, part := range parts {
		if part == "test" {
			idx = i
		}
	}

	className := strings.Join(parts[idx:], ".")
	className = strings.ReplaceAll(className, `\`, ".")
	className = strings.ReplaceAll(className, "/", ".")
	return strings.ReplaceAll(className, "-", "_")
}
