package server

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"apigrader/internal/grader"
	"apigrader/internal/testutil"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(grader.NewGrader(), "grading_results.csv", "grading_results.zip").Handler())
	t.Cleanup(srv.Close)
	return srv
}

func rosterBody(t *testing.T) string {
	good := testutil.NewStudentServer(t, testutil.ValidAPI())
	return "student_name,base_url\n" +
		"alice," + good.URL + "\n" +
		"bob," + good.URL + "/missing\n"
}

func TestGradeCSV(t *testing.T) {
	srv := newServer(t)

	res, err := http.Post(srv.URL+"/grade", "text/csv", strings.NewReader(rosterBody(t)))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))

	records, err := csv.NewReader(res.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "alice", records[1][0])
	require.Equal(t, "Pass", records[1][8])
	require.Equal(t, "bob", records[2][0])
	require.Equal(t, "Fail", records[2][8])
	require.Equal(t, "HTTP Error: 404 Not Found", records[2][1])
}

func TestGradeZip(t *testing.T) {
	srv := newServer(t)

	res, err := http.Post(srv.URL+"/grade?format=zip", "text/csv", strings.NewReader(rosterBody(t)))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	require.Equal(t, "alice.txt", zr.File[0].Name)
	require.Equal(t, "bob.txt", zr.File[1].Name)
}

func TestGradeBadRoster(t *testing.T) {
	srv := newServer(t)

	res, err := http.Post(srv.URL+"/grade", "text/csv", strings.NewReader("name,url\nalice,http://a\n"))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	res2, err := http.Post(srv.URL+"/grade?format=xlsx", "text/csv", strings.NewReader(rosterBody(t)))
	require.NoError(t, err)
	defer res2.Body.Close()
	require.Equal(t, http.StatusBadRequest, res2.StatusCode)
}

func TestEndpoints(t *testing.T) {
	srv := newServer(t)

	res, err := http.Get(srv.URL + "/endpoints")
	require.NoError(t, err)
	defer res.Body.Close()

	var eps []endpointInfo
	require.NoError(t, json.NewDecoder(res.Body).Decode(&eps))
	require.Len(t, eps, 6)
	require.Equal(t, "api/categories", eps[0].ID)
	require.Equal(t, "suggested_books_limit_2", eps[5].Key)
}
