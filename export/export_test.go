package export

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bitrise-io/bitrise/models"
	logV2 "github.com/bitrise-io/go-utils/v2/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Upload(t *testing.T) {
	testResponseID := "mock-test-id"
	testXMLContent := []byte(`<?xml version="1.0" encoding="UTF-8"?><testsuites/>`)
	testStepInfo := models.TestResultStepInfo{ID: "test-ID", Title: "test-Title", Version: "test-Version", Number: 19}

	var (
		serverURL    string
		storedXML    []byte
		finalized    bool
		requestedXML string
	)

	router := mux.NewRouter()
	router.HandleFunc("/test/apps/{app_slug}/builds/{build_slug}/test_reports/{token}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		assert.Equal(t, "test-app", vars["app_slug"])
		assert.Equal(t, "test-build", vars["build_slug"])
		assert.Equal(t, "api-token", vars["token"])

		var uploadReq UploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&uploadReq))
		assert.Equal(t, "dart unit tests", uploadReq.Name)
		assert.Equal(t, testStepInfo, uploadReq.Step)
		assert.Equal(t, len(testXMLContent), uploadReq.FileSize)

		requestedXML = uploadReq.FileName
		response := UploadResponse{
			ID:        testResponseID,
			UploadURL: UploadURL{FileName: uploadReq.FileName, URL: serverURL + "/teststorage/" + uploadReq.FileName},
		}
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}).Methods("POST")

	router.HandleFunc("/teststorage/{file_name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		storedXML = data
		w.WriteHeader(http.StatusOK)
	}).Methods("PUT")

	router.HandleFunc("/test/apps/{app_slug}/builds/{build_slug}/test_reports/{report_id}/{token}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		assert.Equal(t, testResponseID, vars["report_id"])

		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"uploaded":true}`, string(data))

		finalized = true
		w.WriteHeader(http.StatusOK)
	}).Methods("PATCH")

	server := httptest.NewServer(router)
	defer server.Close()
	serverURL = server.URL

	results := Results{
		Result{
			Name:       "dart unit tests",
			XMLContent: testXMLContent,
			StepInfo:   testStepInfo,
		},
	}

	err := results.Upload("api-token", serverURL+"/test", "test-app", "test-build", logV2.NewLogger())
	require.NoError(t, err)

	assert.Equal(t, "test_result.xml", requestedXML)
	assert.Equal(t, testXMLContent, storedXML)
	assert.True(t, finalized)
}

func Test_Upload_SizeLimit(t *testing.T) {
	oversized := make([]byte, maxTotalXMLSize+1)
	results := Results{Result{Name: "too big", XMLContent: oversized}}

	err := results.Upload("api-token", "http://localhost", "app", "build", logV2.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the maximum allowed size")
}

func Test_Upload_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_msg":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	results := Results{Result{Name: "report", XMLContent: []byte("<testsuites/>")}}

	err := results.Upload("bad-token", server.URL, "app", "build", logV2.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialise test report")
}
