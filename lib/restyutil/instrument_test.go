package restyutil

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	mu       sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.messages == nil {
		o.messages = map[string]string{}
	}
	o.messages[id] = contents
}

func withDebugLogging(t *testing.T) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func TestInstrumentClientWritesExchanges(t *testing.T) {
	withDebugLogging(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"organizationId":1}]`))
	}))
	defer srv.Close()

	out := &memoryOutput{}
	client := resty.New()
	InstrumentClient(client, nil, out)

	_, err := client.R().
		SetFormData(map[string]string{"year": "2013"}).
		Post(srv.URL + "/get_documents.php")
	require.NoError(t, err)

	require.Len(t, out.messages, 1)
	message := out.messages["1"]
	require.Contains(t, message, "POST "+srv.URL+"/get_documents.php")
	require.Contains(t, message, "year=2013")
	require.Contains(t, message, "200 ")
	require.Contains(t, message, `[{"organizationId":1}]`)
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := resty.New()
	InstrumentClient(client, nil, nil)

	res, err := client.R().Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode())
}

func TestFormatHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Add("X-Requested-With", "XMLHttpRequest")
	headers.Add("Accept", "a")
	headers.Add("Accept", "b")

	require.Equal(t, "Accept: a\nAccept: b\nX-Requested-With: XMLHttpRequest", formatHeaders(headers))
	require.Equal(t, "", formatHeaders(http.Header{}))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	out.Write("7", "---- REQUEST ----")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "7.txt"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(contents), "---- REQUEST"))
}
