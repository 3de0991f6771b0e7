package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-steputils/stepconf"
	"github.com/bitrise-io/go-steputils/tools"
	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/go-utils/pathutil"
	logV2 "github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"

	"github.com/bitrise-steplib/steps-dart-test-report/dartresult"
	"github.com/bitrise-steplib/steps-dart-test-report/export"
	"github.com/bitrise-steplib/steps-dart-test-report/junit"
	"github.com/bitrise-steplib/steps-dart-test-report/junitreport"
)

const reportPathEnvKey = "BITRISE_DART_TEST_REPORT_PATH"

// Config ...
type Config struct {
	TestResultPath  string `env:"test_result_path,required"`
	BasePath        string `env:"base_path"`
	PackageName     string `env:"package_name"`
	OutputDir       string `env:"output_dir,required"`
	DebugMode       bool   `env:"debug_mode,opt[true,false]"`
	AddonAPIBaseURL string `env:"addon_api_base_url"`
	AddonAPIToken   string `env:"addon_api_token"`
	AppSlug         string `env:"BITRISE_APP_SLUG"`
	BuildSlug       string `env:"BITRISE_BUILD_SLUG"`
	StepVersion     string `env:"BITRISE_STEP_VERSION"`
}

func fail(format string, v ...interface{}) {
	log.Errorf(format, v...)
	os.Exit(1)
}

func main() {
	var config Config
	if err := stepconf.Parse(&config); err != nil {
		fail("Issue with input: %s", err)
	}
	stepconf.Print(config)
	fmt.Println()
	log.SetEnableDebugLog(config.DebugMode)

	absResultPth, err := pathutil.AbsPath(config.TestResultPath)
	if err != nil {
		fail("Failed to expand path: %s, error: %s", config.TestResultPath, err)
	}

	resultFiles, err := collectResultFiles(absResultPth)
	if err != nil {
		fail("%s", err)
	}

	absOutputDir, err := pathutil.AbsPath(config.OutputDir)
	if err != nil {
		fail("Failed to expand path: %s, error: %s", config.OutputDir, err)
	}
	if err := os.MkdirAll(absOutputDir, 0755); err != nil {
		fail("Failed to create output dir: %s, error: %s", absOutputDir, err)
	}

	fmt.Println()
	log.Infof("Converting test results")

	builder := junitreport.Builder{Base: config.BasePath, Package: config.PackageName}
	stepInfo := models.TestResultStepInfo{ID: "dart-test-report", Title: "Dart Test Report", Version: config.StepVersion}

	var generated []string
	var results export.Results
	for _, resultPth := range resultFiles {
		xmlPth, data, err := convert(builder, resultPth, absOutputDir)
		if err != nil {
			fail("Failed to convert %s, error: %s", resultPth, err)
		}

		log.Printf("- %s (%s)", xmlPth, units.HumanSize(float64(len(data))))

		generated = append(generated, xmlPth)
		results = append(results, export.Result{
			Name:       reportName(resultPth),
			XMLContent: data,
			StepInfo:   stepInfo,
		})
	}

	fmt.Println()
	log.Donef("Success")

	if err := tools.ExportEnvironmentWithEnvman(reportPathEnvKey, generated[0]); err != nil {
		fail("Failed to export %s, error: %s", reportPathEnvKey, err)
	}
	log.Printf("The generated report path is now available in the Environment Variable: %s (value: %s)", reportPathEnvKey, generated[0])

	uploadResults(config, results)
}

// convert parses a single dart test JSON result file and writes its JUnit XML
// report into outputDir. Returns the report path and content.
func convert(builder junitreport.Builder, resultPth, outputDir string) (string, []byte, error) {
	file, err := os.Open(resultPth)
	if err != nil {
		return "", nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warnf("Failed to close %s: %s", resultPth, err)
		}
	}()

	report, err := dartresult.Parse(file, time.Now())
	if err != nil {
		return "", nil, err
	}

	document := junit.Document(builder.Build(report))

	xmlPth := filepath.Join(outputDir, outputFileName(resultPth))
	if err := fileutil.WriteStringToFile(xmlPth, document); err != nil {
		return "", nil, err
	}

	return xmlPth, []byte(document), nil
}

func collectResultFiles(absResultPth string) ([]string, error) {
	isDir, err := pathutil.IsDirExists(absResultPth)
	if err != nil {
		return nil, fmt.Errorf("failed to check if test result path (%s) is a directory or a file, error: %s", absResultPth, err)
	}

	if !isDir {
		if exists, err := pathutil.IsPathExists(absResultPth); err != nil {
			return nil, fmt.Errorf("failed to check if test result path (%s) exists, error: %s", absResultPth, err)
		} else if !exists {
			return nil, fmt.Errorf("test result path (%s) does not exist", absResultPth)
		}
		return []string{absResultPth}, nil
	}

	pattern := filepath.Join(pathutil.EscapeGlobPath(absResultPth), "*.json")
	pths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list result files in %s, error: %s", absResultPth, err)
	}
	if len(pths) == 0 {
		return nil, fmt.Errorf("no *.json test result file found in %s", absResultPth)
	}
	return pths, nil
}

func outputFileName(resultPth string) string {
	return reportName(resultPth) + ".xml"
}

func reportName(resultPth string) string {
	base := filepath.Base(resultPth)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func uploadResults(config Config, results export.Results) {
	if config.AddonAPIToken == "" {
		return
	}

	fmt.Println()
	log.Infof("Upload test reports")
	log.Printf("- uploading (%d) test reports", len(results))

	if err := results.Upload(config.AddonAPIToken, config.AddonAPIBaseURL, config.AppSlug, config.BuildSlug, logV2.NewLogger()); err != nil {
		log.Warnf("Failed to upload test reports: %s", err)
	} else {
		log.Donef("Success")
	}
}
