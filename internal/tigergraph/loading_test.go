package tigergraph

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunLoadingJobWithFile(t *testing.T) {
	var gotPath, gotBody string
	var gotQuery map[string][]string
	var gotHeaders http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.Query()
		gotHeaders = r.Header
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		writeJSON(w, map[string]any{
			"error":   false,
			"results": []map[string]any{{"sourceFileName": "Online_POST", "statistics": map[string]any{"validLine": 2}}},
		})
	}))
	defer ts.Close()

	conn := testConn(t, ts, Config{Graph: "My Graph", APIToken: "tok123"})
	path := writeDataFile(t, "1,Alice\n2,Bob\n")

	results, err := conn.RunLoadingJobWithFile(context.Background(), path, "file1", "load_person", &LoadOptions{Sep: ",", EOL: "\n"})
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	assert.Equal(t, "/ddl/My%20Graph", gotPath)
	assert.Equal(t, []string{"load_person"}, gotQuery["tag"])
	assert.Equal(t, []string{"file1"}, gotQuery["filename"])
	assert.Equal(t, []string{","}, gotQuery["sep"])
	assert.Equal(t, []string{"\n"}, gotQuery["eol"])
	assert.Equal(t, "16000", gotHeaders.Get("GSQL-TIMEOUT"))
	assert.Equal(t, "128000000", gotHeaders.Get("RESPONSE-LIMIT"))
	assert.Equal(t, "Bearer tok123", gotHeaders.Get("Authorization"))
	assert.Equal(t, "1,Alice\n2,Bob\n", gotBody)
}

func TestRunLoadingJobOverridesLimits(t *testing.T) {
	var gotHeaders http.Header
	var gotQuery map[string][]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header
		gotQuery = r.URL.Query()
		writeJSON(w, map[string]any{"error": false, "results": []any{}})
	}))
	defer ts.Close()

	conn := testConn(t, ts, Config{Graph: "MyGraph"})
	_, err := conn.RunLoadingJobWithData(context.Background(), []byte("{}"), "file1", "load_json", &LoadOptions{
		Timeout:   60,
		SizeLimit: 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, "60", gotHeaders.Get("GSQL-TIMEOUT"))
	assert.Equal(t, "1024", gotHeaders.Get("RESPONSE-LIMIT"))
	// JSON 数据不传 sep/eol
	assert.NotContains(t, gotQuery, "sep")
	assert.NotContains(t, gotQuery, "eol")
}

func TestRunLoadingJobServerSideTimeout(t *testing.T) {
	var gotHeaders http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header
		writeJSON(w, map[string]any{"error": false, "results": []any{}})
	}))
	defer ts.Close()

	conn := testConn(t, ts, Config{Graph: "MyGraph"})
	_, err := conn.RunLoadingJobWithData(context.Background(), []byte("x"), "file1", "load_person", &LoadOptions{
		Timeout: -1,
	})
	require.NoError(t, err)

	// 负数超时表示交给服务端全局超时设置
	assert.Equal(t, "0", gotHeaders.Get("GSQL-TIMEOUT"))
}

func TestRunLoadingJobWithFileMissing(t *testing.T) {
	conn, err := NewConnection(Config{Host: "tg.example.com", Graph: "MyGraph"})
	require.NoError(t, err)

	_, err = conn.RunLoadingJobWithFile(context.Background(), "/no/such/file.csv", "file1", "load_person", nil)
	require.Error(t, err)
}

func TestRunLoadingJobServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"error": true, "message": "Loading job load_person does not exist", "code": "REST-30000"})
	}))
	defer ts.Close()

	conn := testConn(t, ts, Config{Graph: "MyGraph"})
	_, err := conn.RunLoadingJobWithData(context.Background(), []byte("x"), "file1", "load_person", nil)
	var tgErr *Error
	require.ErrorAs(t, err, &tgErr)
	assert.Equal(t, "REST-30000", tgErr.Code)
}

func TestUploadFileAlias(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, map[string]any{"error": false, "results": []any{}})
	}))
	defer ts.Close()

	conn := testConn(t, ts, Config{Graph: "MyGraph"})
	path := writeDataFile(t, "1,Alice\n")
	_, err := conn.UploadFile(context.Background(), path, "file1", "load_person", nil)
	require.NoError(t, err)
	assert.True(t, called)
}
