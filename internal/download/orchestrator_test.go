package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/deckrepo/deckrepo-manager/internal/install"
	"github.com/deckrepo/deckrepo-manager/internal/model"
)

// recordingSink collects notifications for assertions.
type recordingSink struct {
	mu       sync.Mutex
	percents map[string][]int
	results  map[string]install.Result
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		percents: make(map[string][]int),
		results:  make(map[string]install.Result),
	}
}

func (r *recordingSink) OnProgress(itemID string, percent int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.percents[itemID] = append(r.percents[itemID], percent)
}

func (r *recordingSink) OnDone(itemID string, result install.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[itemID] = result
}

func (r *recordingSink) result(itemID string) (install.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.results[itemID]
	return res, ok
}

func (r *recordingSink) lastPercent(itemID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps := r.percents[itemID]
	if len(ps) == 0 {
		return -1
	}
	return ps[len(ps)-1]
}

func assetServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/video/redirected":
			http.Redirect(w, r, "/video/ok", http.StatusFound)
		case "/video/ok":
			w.Write([]byte("webm video payload"))
		case "/video/chunked":
			// Declares the size only on HEAD; the GET body streams in
			// chunks with no Content-Length.
			if r.Method == http.MethodHead {
				w.Header().Set("Content-Length", "18")
				return
			}
			w.Write([]byte("webm video"))
			w.(http.Flusher).Flush()
			w.Write([]byte(" payload"))
		case "/thumb/ok":
			w.Write([]byte("thumbnail payload"))
		case "/thumb/broken":
			http.Error(w, "gone", http.StatusNotFound)
		case "/video/broken":
			http.Error(w, "gone", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testItem(srvURL, id, slug string, kind model.VideoKind, videoPath, thumbPath string) model.CatalogItem {
	it := model.CatalogItem{
		ID:       id,
		Slug:     slug,
		Kind:     kind,
		Title:    "Test " + slug,
		VideoURL: srvURL + videoPath,
	}
	if thumbPath != "" {
		it.ThumbnailURL = srvURL + thumbPath
	}
	return it
}

func TestOrchestrator_FullSession(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/redirected", "")
	if !o.Start(context.Background(), item) {
		t.Fatal("Start returned false for a fresh item")
	}
	o.Wait()

	res, ok := sink.result("a1")
	if !ok {
		t.Fatal("no terminal notification")
	}
	if !res.OK {
		t.Fatalf("install failed: %s", res.Message)
	}

	got, err := os.ReadFile(filepath.Join(ins.Root(), "warp.webm"))
	if err != nil || string(got) != "webm video payload" {
		t.Errorf("installed file = %q, err %v", got, err)
	}

	if pct := sink.lastPercent("a1"); pct != 100 {
		t.Errorf("last progress = %d, want 100", pct)
	}
	if o.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after completion, want 0", o.ActiveCount())
	}
}

func TestOrchestrator_ProgressWithoutContentLength(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/chunked", "")
	o.Start(context.Background(), item)
	o.Wait()

	res, _ := sink.result("a1")
	if !res.OK {
		t.Fatalf("install failed: %s", res.Message)
	}

	got, err := os.ReadFile(filepath.Join(ins.Root(), "warp.webm"))
	if err != nil || string(got) != "webm video payload" {
		t.Errorf("installed file = %q, err %v", got, err)
	}

	// The total comes from the HEAD probe, so progress still reaches 100
	// even though the response itself declared no length.
	if pct := sink.lastPercent("a1"); pct != 100 {
		t.Errorf("last progress = %d, want 100", pct)
	}
}

func TestOrchestrator_SingleFlightPerItem(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	o := NewOrchestrator(ins, newRecordingSink(), 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/", "")
	if !o.Start(context.Background(), item) {
		t.Fatal("first Start should succeed")
	}

	// Let the first session register before racing the second request.
	deadline := time.Now().Add(2 * time.Second)
	for !o.Active("a1") && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if o.Start(context.Background(), item) {
		t.Error("second Start for the same item must be a no-op")
	}
	if o.ActiveCount() != 1 {
		t.Errorf("ActiveCount = %d, want exactly 1", o.ActiveCount())
	}

	close(release)
	o.Wait()

	// Once terminal, a fresh request is allowed again.
	if !o.Start(context.Background(), item) {
		t.Error("Start after completion should succeed")
	}
	o.Wait()
}

func TestOrchestrator_ThumbnailFailureNonFatal(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/ok", "/thumb/broken")
	o.Start(context.Background(), item)
	o.Wait()

	res, _ := sink.result("a1")
	if !res.OK {
		t.Fatalf("install should succeed despite thumbnail failure: %s", res.Message)
	}

	entries, err := ins.ListInstalled()
	if err != nil || len(entries) != 1 {
		t.Fatalf("entries = %v, err %v", entries, err)
	}
	if entries[0].ThumbnailPath != "" {
		t.Error("entry should have no local thumbnail after a failed fetch")
	}
}

func TestOrchestrator_ThumbnailSuccess(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/ok", "/thumb/ok")
	o.Start(context.Background(), item)
	o.Wait()

	res, _ := sink.result("a1")
	if !res.OK {
		t.Fatalf("install failed: %s", res.Message)
	}

	entries, _ := ins.ListInstalled()
	if len(entries) != 1 || entries[0].ThumbnailPath == "" {
		t.Errorf("entry should carry a local thumbnail, got %+v", entries)
	}
}

func TestOrchestrator_DownloadErrorReported(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/broken", "")
	o.Start(context.Background(), item)
	o.Wait()

	res, ok := sink.result("a1")
	if !ok {
		t.Fatal("no terminal notification for a failed session")
	}
	if res.OK {
		t.Error("failed download must not report success")
	}
	if res.Message == "" {
		t.Error("failure notification should carry a message")
	}
	if o.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d after error, want 0", o.ActiveCount())
	}

	// Nothing was installed.
	entries, _ := ins.ListInstalled()
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
}

// panickingSink simulates a UI listener torn down mid-download.
type panickingSink struct{ done chan install.Result }

func (p panickingSink) OnProgress(string, int) { panic("listener gone") }
func (p panickingSink) OnDone(itemID string, result install.Result) {
	p.done <- result
	panic("listener gone")
}

func TestOrchestrator_SinkPanicSwallowed(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	done := make(chan install.Result, 1)
	o := NewOrchestrator(ins, panickingSink{done: done}, 2)

	item := testItem(srv.URL, "a1", "warp", model.KindBoot, "/video/ok", "")
	o.Start(context.Background(), item)
	o.Wait()

	select {
	case res := <-done:
		if !res.OK {
			t.Errorf("install failed: %s", res.Message)
		}
	default:
		t.Fatal("OnDone was never reached")
	}

	// The panicking progress listener must not have aborted the write.
	if _, err := os.Stat(filepath.Join(ins.Root(), "warp.webm")); err != nil {
		t.Errorf("asset missing after sink panic: %v", err)
	}
}

func TestOrchestrator_InstallAll(t *testing.T) {
	srv := assetServer(t)
	defer srv.Close()

	ins := install.New(filepath.Join(t.TempDir(), "movies"), 640)
	sink := newRecordingSink()
	o := NewOrchestrator(ins, sink, 2)

	items := []model.CatalogItem{
		testItem(srv.URL, "a1", "alpha", model.KindBoot, "/video/ok", ""),
		testItem(srv.URL, "b2", "beta", model.KindBoot, "/video/ok", ""),
		testItem(srv.URL, "c3", "gamma", model.KindBoot, "/video/ok", ""),
	}

	if err := o.InstallAll(context.Background(), items); err != nil {
		t.Fatalf("InstallAll failed: %v", err)
	}

	entries, err := ins.ListInstalled()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d installed entries, want 3", len(entries))
	}
	for _, id := range []string{"a1", "b2", "c3"} {
		if res, ok := sink.result(id); !ok || !res.OK {
			t.Errorf("item %s: result %+v, want success", id, res)
		}
	}
}
