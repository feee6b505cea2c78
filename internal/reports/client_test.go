package reports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ospireports/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

const testUserAgent = "ospireports-test"

func newTestClient(t *testing.T, handler http.Handler) (*Client, *telemetry.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &telemetry.Recorder{}
	client, err := NewClient(ClientOptions{
		Endpoints: Endpoints{
			Portal:        srv.URL,
			HostedReports: "https://hostedreports.example.org",
		},
		UserAgent: testUserAgent,
	}, rec)
	require.NoError(t, err)
	return client, rec
}

func TestEndpoints(t *testing.T) {
	e := Endpoints{Portal: "https://ospi.k12.wa.us", HostedReports: "https://hostedreports.ospi.k12.wa.us/"}

	require.Equal(t, "https://hostedreports.ospi.k12.wa.us/api/0/Document/Organizations/2013/SubCategory/3", e.Organizations(2013, 3))
	require.Equal(t, "https://hostedreports.ospi.k12.wa.us/api/0/Document/Search", e.Search())
	require.Equal(t, "https://hostedreports.ospi.k12.wa.us/api/0/Document/Download/99", e.Download(99))
}

func TestResolveOrganizations(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, proxyPath, r.URL.Path)
		require.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		require.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		require.Equal(t, "cors_proxy", r.URL.Query().Get("action"))
		require.Equal(
			t,
			"https://hostedreports.example.org/api/0/Document/Organizations/2013/SubCategory/3",
			r.URL.Query().Get("uri"),
		)
		// the target must travel fully escaped
		require.Contains(t, r.URL.RawQuery, "uri=https%3A%2F%2Fhostedreports.example.org%2Fapi%2F0")

		// the proxy relays the api's json as a json string
		fmt.Fprint(w, `"[{\"organizationId\":7,\"name\":\"Example/ESD\",\"typeId\":2},{\"organizationId\":8,\"name\":\"OSPI\",\"typeId\":1}]"`)
	}))

	orgs, err := client.ResolveOrganizations(context.Background(), 2013, 3)
	require.NoError(t, err)
	require.Equal(t, []Organization{
		{OrganizationID: 7, Name: "Example/ESD", TypeID: 2},
		{OrganizationID: 8, Name: "OSPI", TypeID: 1},
	}, orgs)
}

func TestResolveOrganizationsTransportError(t *testing.T) {
	client, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))

	orgs, err := client.ResolveOrganizations(context.Background(), 2013, 3)
	require.Nil(t, orgs)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
	require.Equal(t, http.MethodGet, transportErr.Method)
	require.Equal(t, []string{"reports: " + report_client_resolve_organizations}, rec.Of("broken"))
}

func TestResolveOrganizationsDecodeError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Maintenance</title></head><body></body></html>`)
	}))

	_, err := client.ResolveOrganizations(context.Background(), 2013, 3)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, "Maintenance", decodeErr.Snippet)

	var transportErr *TransportError
	require.False(t, errors.As(err, &transportErr))
}

func TestListDocuments(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, documentsPath, r.URL.Path)
		require.NoError(t, r.ParseForm())

		require.Equal(t, "https://hostedreports.example.org/api/0/Document/Search", r.PostForm.Get("uri"))
		require.Equal(t, "2013", r.PostForm.Get("year"))
		require.Equal(t, "3", r.PostForm.Get("report_type"))
		require.Equal(t, "7", r.PostForm.Get("org"))
		require.Equal(t, "2", r.PostForm.Get("org_type"))
		require.Equal(t, "safs", r.PostForm.Get("report"))

		fmt.Fprint(w, `[{"documentId":99,"title":"Annual Report"}]`)
	}))

	docs, err := client.ListDocuments(context.Background(), DocumentQuery{
		Year:           2013,
		OrganizationID: 7,
		OrgTypeID:      2,
		ReportCategory: 3,
		Slug:           "safs",
	})
	require.NoError(t, err)
	require.Equal(t, []DocumentRecord{{DocumentID: 99, Title: "Annual Report"}}, docs)
}

func TestListDocumentsEmpty(t *testing.T) {
	for _, body := range []string{`[]`, `"[]"`, `null`} {
		client, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))

		docs, err := client.ListDocuments(context.Background(), DocumentQuery{Year: 2013, Slug: "safs"})
		require.NoError(t, err, body)
		require.Empty(t, docs, body)
		require.Empty(t, rec.Of("broken"), body)
	}
}

func TestListDocumentsErrors(t *testing.T) {
	client, rec := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.ListDocuments(context.Background(), DocumentQuery{Year: 2013, OrganizationID: 7, Slug: "safs"})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	require.Contains(t, err.Error(), "2013/7/safs")
	require.Len(t, rec.Of("broken"), 1)
}

func TestClientCanceledContext(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ResolveOrganizations(ctx, 2013, 3)
	require.ErrorIs(t, err, context.Canceled)
}
