package preview

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/brandkit/internal/document"
	"github.com/alexisbeaulieu97/brandkit/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/brandkit/internal/tokens"
)

type staticStore struct{ bundle tokens.Bundle }

func (s staticStore) Snapshot() tokens.Bundle { return s.bundle.Clone() }

func newTestServer(t *testing.T) (*Server, *document.Sheet, *httptest.Server) {
	t.Helper()
	sheet := document.NewSheet()
	sheet.SetVariable("--primary", "217 91% 60%")
	bundle := tokens.Defaults()
	bundle.BrandName = "Preview Co"

	srv := NewServer(sheet, staticStore{bundle: bundle}, logging.NewNoOpLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, sheet, ts
}

func TestThemeCSS(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/theme.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/css; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, ":root {\n  --primary: 217 91% 60%;\n}\n", string(body))
}

func TestBundleEndpoint(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/bundle")
	require.NoError(t, err)
	defer resp.Body.Close()

	var bundle tokens.Bundle
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bundle))
	assert.Equal(t, "Preview Co", bundle.BrandName)

	post, err := http.Post(ts.URL+"/api/bundle", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestIndexPage(t *testing.T) {
	_, sheet, ts := newTestServer(t)
	sheet.AppendLink(document.Link{Href: "https://fonts.example/inter.css", Marker: "data-brandkit-font"})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	html := string(body)
	assert.Contains(t, html, "<h1>Preview Co</h1>")
	assert.Contains(t, html, `<link rel="stylesheet" href="https://fonts.example/inter.css" data-brandkit-font>`)
	assert.Contains(t, html, "hsl(var(--primary))")

	missing, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestWebsocketPushesDocumentChanges(t *testing.T) {
	srv, sheet, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var initial Update
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Contains(t, initial.CSS, "--primary: 217 91% 60%;")

	require.Eventually(t, func() bool { return srv.Hub().Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	sheet.SetVariable("--accent", "0 100% 50%")

	var update Update
	require.NoError(t, conn.ReadJSON(&update))
	assert.Contains(t, update.CSS, "--accent: 0 100% 50%;")
}
