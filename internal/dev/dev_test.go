package dev

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestWatcher_Basic(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "news.md")
	if err := os.WriteFile(testFile, []byte("# News"), 0644); err != nil {
		t.Fatal(err)
	}

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Interval: 50 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	// Wait for initial scan
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(testFile, []byte("# News\n\nUpdated."), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangeContent {
			t.Errorf("Expected content change, got %v", change.Type)
		}
		if change.Path != testFile {
			t.Errorf("Expected path %q, got %q", testFile, change.Path)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for change")
	}

	watcher.Stop()
}

func TestWatcher_NewFile(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:    []string{tmpDir},
		Interval: 50 * time.Millisecond,
	})

	changes := make(chan Change, 10)
	watcher.OnChange(func(c Change) {
		changes <- c
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go watcher.Start(ctx)

	time.Sleep(100 * time.Millisecond)

	newFile := filepath.Join(tmpDir, "fresh.md")
	if err := os.WriteFile(newFile, []byte("# Fresh"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-changes:
		if change.Type != ChangeContent {
			t.Errorf("Expected content change, got %v", change.Type)
		}
		if change.Path != newFile {
			t.Errorf("Expected path %q, got %q", newFile, change.Path)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timeout waiting for new file change")
	}

	watcher.Stop()
}

func TestWatcher_Ignore(t *testing.T) {
	tmpDir := t.TempDir()

	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{tmpDir},
		Ignore: []string{"*.tmp", "drafts"},
	})

	if !watcher.shouldIgnore(filepath.Join(tmpDir, "scratch.tmp")) {
		t.Error("Should ignore *.tmp files")
	}
	if !watcher.shouldIgnore(filepath.Join(tmpDir, "drafts", "wip.md")) {
		t.Error("Should ignore drafts directory")
	}
	if watcher.shouldIgnore(filepath.Join(tmpDir, "news.md")) {
		t.Error("Should not ignore news.md")
	}
}

func TestWatcher_IgnoreSegments(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths:  []string{"."},
		Ignore: []string{"tmp"},
	})

	if !watcher.shouldIgnore(filepath.Join("foo", "tmp", "bar.md")) {
		t.Error("Should ignore tmp directory segment")
	}
	if watcher.shouldIgnore(filepath.Join("foo", "attempt.md")) {
		t.Error("Should not ignore substring match")
	}
}

func TestWatcher_IsRunning(t *testing.T) {
	watcher := NewWatcher(WatcherConfig{
		Paths: []string{"."},
	})

	if watcher.IsRunning() {
		t.Error("Watcher should not be running initially")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := []struct {
		path string
		want ChangeType
	}{
		{"README.md", ChangeContent},
		{"list/news.markdown", ChangeContent},
		{"style.css", ChangeCSS},
		{"style.scss", ChangeCSS},
		{"image.png", ChangeAsset},
		{"data.json", ChangeAsset},
	}

	for _, tt := range tests {
		got := classifyChange(tt.path)
		if got != tt.want {
			t.Errorf("classifyChange(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReloadServer_ClientCount(t *testing.T) {
	rs := NewReloadServer()

	if rs.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", rs.ClientCount())
	}
}

func dialReload(t *testing.T, rs *ReloadServer) (*websocket.Conn, func()) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(rs.HandleWebSocket))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Dial error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for rs.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestReloadServer_Broadcast(t *testing.T) {
	rs := NewReloadServer()
	conn, cleanup := dialReload(t, rs)
	defer cleanup()

	rs.NotifyReload()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error: %v", err)
	}

	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if msg.Type != ReloadTypeFull {
		t.Errorf("Type = %q, want %q", msg.Type, ReloadTypeFull)
	}
}

func TestReloadServer_ErrorOverlay(t *testing.T) {
	rs := NewReloadServer()
	conn, cleanup := dialReload(t, rs)
	defer cleanup()

	rs.NotifyError("render failed: bad front matter")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage error: %v", err)
	}

	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if msg.Type != ReloadTypeError {
		t.Errorf("Type = %q, want %q", msg.Type, ReloadTypeError)
	}
	if msg.Error != "render failed: bad front matter" {
		t.Errorf("Error = %q", msg.Error)
	}
}

func TestServer_ContentChangeInvalidatesAndReloads(t *testing.T) {
	tmpDir := t.TempDir()
	docPath := filepath.Join(tmpDir, "README.md")
	if err := os.WriteFile(docPath, []byte("# Home"), 0644); err != nil {
		t.Fatal(err)
	}

	invalidated := make(chan struct{}, 1)
	srv := NewServer(ServerOptions{
		Watch:    []string{tmpDir},
		Interval: 50 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		OnInvalidate: func() {
			select {
			case invalidated <- struct{}{}:
			default:
			}
		},
	})

	conn, cleanup := dialReload(t, srv.Reload())
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Start(ctx)
	defer srv.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(docPath, []byte("# Home\n\nEdited."), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-invalidated:
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for invalidation")
	}

	// The client gets a clear followed by the reload.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	sawReload := false
	for i := 0; i < 2; i++ {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage error: %v", err)
		}
		var msg ReloadMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Unmarshal error: %v", err)
		}
		if msg.Type == ReloadTypeFull {
			sawReload = true
		}
	}
	if !sawReload {
		t.Error("Expected a reload message after a content change")
	}
}

func TestReloadClientScript(t *testing.T) {
	if len(ReloadClientScript) == 0 {
		t.Error("ReloadClientScript should not be empty")
	}
	if !strings.Contains(ReloadClientScript, "WebSocket") {
		t.Error("ReloadClientScript should contain WebSocket")
	}
	if !strings.Contains(ReloadClientScript, ReloadEndpoint) {
		t.Error("ReloadClientScript should contain the reload endpoint")
	}
	if !strings.Contains(ReloadClientScript, "location.reload") {
		t.Error("ReloadClientScript should contain reload logic")
	}
}
