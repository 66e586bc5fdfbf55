package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bft-labs/docship/pkg/client"
	"github.com/bft-labs/docship/pkg/secret"
)

type call struct {
	doctype string
	name    string
	body    string
}

type fakeUpdater struct {
	calls chan call
	err   error
}

func newFakeUpdater() *fakeUpdater {
	return &fakeUpdater{calls: make(chan call, 16)}
}

func (f *fakeUpdater) Update(ctx context.Context, doctype, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.calls <- call{doctype: doctype, name: name, body: string(b)}
	return f.err
}

func startWatcher(t *testing.T, dir string, u Updater) {
	t.Helper()
	w := New(Config{Dir: dir, Debounce: 50 * time.Millisecond}, u)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher not ready")
	}

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() error = %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func waitCall(t *testing.T, u *fakeUpdater) call {
	t.Helper()
	select {
	case c := <-u.calls:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for update")
		return call{}
	}
}

func expectNoCall(t *testing.T, u *fakeUpdater, wait time.Duration) {
	t.Helper()
	select {
	case c := <-u.calls:
		t.Fatalf("unexpected update %+v", c)
	case <-time.After(wait):
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcher_PushesChangedDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Task"), 0o755); err != nil {
		t.Fatal(err)
	}
	u := newFakeUpdater()
	startWatcher(t, dir, u)

	writeFile(t, filepath.Join(dir, "Task", "DOC-1.json"), "{\"status\": \"open\"}\n")

	c := waitCall(t, u)
	if c.doctype != "Task" || c.name != "DOC-1" {
		t.Errorf("update target = %s/%s, want Task/DOC-1", c.doctype, c.name)
	}
	if c.body != `{"status":"open"}` {
		t.Errorf("update body = %s, want {\"status\":\"open\"}", c.body)
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Task"), 0o755); err != nil {
		t.Fatal(err)
	}
	u := newFakeUpdater()
	startWatcher(t, dir, u)

	path := filepath.Join(dir, "Task", "DOC-1.json")
	for _, status := range []string{"a", "b", "c"} {
		writeFile(t, path, `{"status":"`+status+`"}`)
	}

	c := waitCall(t, u)
	if c.body != `{"status":"c"}` {
		t.Errorf("update body = %s, want last write", c.body)
	}
	expectNoCall(t, u, 300*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Task"), 0o755); err != nil {
		t.Fatal(err)
	}
	u := newFakeUpdater()
	startWatcher(t, dir, u)

	writeFile(t, filepath.Join(dir, "top-level.json"), `{}`)
	writeFile(t, filepath.Join(dir, "Task", "notes.txt"), `hello`)
	writeFile(t, filepath.Join(dir, "Task", ".DOC-1.json"), `{}`)
	writeFile(t, filepath.Join(dir, "Task", "broken.json"), `{not json`)

	expectNoCall(t, u, 300*time.Millisecond)
}

func TestWatcher_NewDoctypeDirectory(t *testing.T) {
	dir := t.TempDir()
	u := newFakeUpdater()
	startWatcher(t, dir, u)

	if err := os.Mkdir(filepath.Join(dir, "ToDo"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "ToDo", "TD-7.json"), `{"description":"ship it"}`)

	c := waitCall(t, u)
	if c.doctype != "ToDo" || c.name != "TD-7" {
		t.Errorf("update target = %s/%s, want ToDo/TD-7", c.doctype, c.name)
	}
}

func TestWatcher_KeepsRunningAfterFailure(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Task"), 0o755); err != nil {
		t.Fatal(err)
	}
	u := newFakeUpdater()
	u.err = errors.New("boom")
	startWatcher(t, dir, u)

	writeFile(t, filepath.Join(dir, "Task", "DOC-1.json"), `{"a":1}`)
	waitCall(t, u)
	// no retry
	expectNoCall(t, u, 300*time.Millisecond)

	writeFile(t, filepath.Join(dir, "Task", "DOC-2.json"), `{"a":2}`)
	if c := waitCall(t, u); c.name != "DOC-2" {
		t.Errorf("update name = %s, want DOC-2", c.name)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(Config{Dir: filepath.Join(t.TempDir(), "missing")}, newFakeUpdater())
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

func TestWatcher_WithDocumentClient(t *testing.T) {
	type request struct {
		method string
		path   string
		body   string
	}
	reqs := make(chan request, 4)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		reqs <- request{method: r.Method, path: r.URL.Path, body: string(b)}
		_, _ = io.WriteString(w, `{"data":{}}`)
	}))
	defer ts.Close()

	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "Task"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := client.NewWithHTTPClient(ts.Client(), client.Settings{URL: ts.URL, Key: "k", Secret: secret.New("s")})
	startWatcher(t, dir, c)

	writeFile(t, filepath.Join(dir, "Task", "DOC-1.json"), `{"status":"closed"}`)

	select {
	case r := <-reqs:
		if r.method != http.MethodPut || r.path != "/api/resource/Task/DOC-1" {
			t.Errorf("request = %s %s, want PUT /api/resource/Task/DOC-1", r.method, r.path)
		}
		if r.body != `{"data":{"status":"closed"}}` {
			t.Errorf("body = %s", r.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for request")
	}
}

func TestDocRef(t *testing.T) {
	w := New(Config{Dir: "/docs"}, newFakeUpdater())

	tests := []struct {
		path    string
		doctype string
		name    string
		ok      bool
	}{
		{path: "/docs/Task/DOC-1.json", doctype: "Task", name: "DOC-1", ok: true},
		{path: "/docs/Sales Order/SO-1.json", doctype: "Sales Order", name: "SO-1", ok: true},
		{path: "/docs/Task/DOC-1.txt"},
		{path: "/docs/Task/.json"},
		{path: "/docs/DOC-1.json"},
		{path: "/docs/Task/sub/DOC-1.json"},
		{path: "/elsewhere/Task/DOC-1.json"},
	}

	for _, tt := range tests {
		doctype, name, ok := w.docRef(tt.path)
		if ok != tt.ok || doctype != tt.doctype || name != tt.name {
			t.Errorf("docRef(%q) = %q, %q, %v; want %q, %q, %v", tt.path, doctype, name, ok, tt.doctype, tt.name, tt.ok)
		}
	}
}
