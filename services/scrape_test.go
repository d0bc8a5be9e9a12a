package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cses-tracker/config"
	"cses-tracker/scraper/cses"
	"cses-tracker/storage"
	"cses-tracker/utils"
)

const listHTML = `
<html><body>
<div class="task-list">
  <h2>Introductory Problems</h2>
  <div class="task full"><a href="/problemset/task/1068">Weird Algorithm</a></div>
  <div class="task"><a href="/problemset/task/1069">Repetitions</a></div>
</div>
</body></html>`

// fakeSession scripts the browser interactions of one scrape run.
type fakeSession struct {
	title  string
	html   string
	navErr error
	closed bool
}

func (f *fakeSession) Navigate(url string) error       { return f.navErr }
func (f *fakeSession) WaitVisible(sel string) error    { return nil }
func (f *fakeSession) Clear(sel string) error          { return nil }
func (f *fakeSession) SendKeys(sel, text string) error { return nil }
func (f *fakeSession) Click(sel string) error          { return nil }
func (f *fakeSession) Title() (string, error)          { return f.title, nil }
func (f *fakeSession) PageHTML() (string, error)       { return f.html, nil }
func (f *fakeSession) Close()                          { f.closed = true }

func newTestService(t *testing.T, sess *fakeSession, openErr error) (*ScrapeService, *storage.SnapshotStore, *bool) {
	t.Helper()

	cfg := &config.Config{
		DataDir:       t.TempDir(),
		PacingEnabled: false,
	}
	store := storage.NewSnapshotStore(cfg.DataDir)
	svc := NewScrapeService(cfg, utils.NewLogger(), store, nil, cses.NewMetrics())

	opened := false
	svc.open = func() (sessionHandle, error) {
		opened = true
		if openErr != nil {
			return nil, openErr
		}
		return sess, nil
	}
	return svc, store, &opened
}

func userFiles(t *testing.T, store *storage.SnapshotStore, username string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(store.BaseDir(), username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunMissingCredentials(t *testing.T) {
	svc, store, opened := newTestService(t, &fakeSession{}, nil)

	_, err := svc.Run(42)

	var notFound ErrCredentialsNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want ErrCredentialsNotFound", err)
	}
	if notFound.Index != 42 {
		t.Errorf("index: got %d, want 42", notFound.Index)
	}
	if *opened {
		t.Error("no session may be opened without credentials")
	}
	if files := userFiles(t, store, "alice"); files != nil {
		t.Errorf("no files may be written: %v", files)
	}
}

func TestRunLoginFailure(t *testing.T) {
	t.Setenv("CSES_USERNAME_1", "alice")
	t.Setenv("CSES_PASSWORD_1", "wrong")

	sess := &fakeSession{title: "CSES - Login"}
	svc, store, _ := newTestService(t, sess, nil)

	_, err := svc.Run(1)

	var loginErr ErrLoginFailed
	if !errors.As(err, &loginErr) {
		t.Fatalf("got %v, want ErrLoginFailed", err)
	}
	if loginErr.Reason != "Login failed. Please check credentials." {
		t.Errorf("reason: got %q", loginErr.Reason)
	}
	if !sess.closed {
		t.Error("session must be closed after a failed login")
	}
	if files := userFiles(t, store, "alice"); files != nil {
		t.Errorf("no files may be written on login failure: %v", files)
	}
}

func TestRunEmptyExtraction(t *testing.T) {
	t.Setenv("CSES_USERNAME_1", "alice")
	t.Setenv("CSES_PASSWORD_1", "hunter2")

	sess := &fakeSession{title: "CSES", html: "<html><body></body></html>"}
	svc, store, _ := newTestService(t, sess, nil)

	_, err := svc.Run(1)

	var extractionErr ErrExtractionFailed
	if !errors.As(err, &extractionErr) {
		t.Fatalf("got %v, want ErrExtractionFailed", err)
	}
	if !errors.Is(err, cses.ErrNoProblems) {
		t.Errorf("cause should be ErrNoProblems, got %v", err)
	}
	if !sess.closed {
		t.Error("session must be closed after a failed extraction")
	}
	if files := userFiles(t, store, "alice"); files != nil {
		t.Errorf("no stats may be written for an empty extraction: %v", files)
	}
}

func TestRunSessionOpenFailure(t *testing.T) {
	t.Setenv("CSES_USERNAME_1", "alice")
	t.Setenv("CSES_PASSWORD_1", "hunter2")

	svc, _, _ := newTestService(t, nil, errors.New("no chrome binary"))

	_, err := svc.Run(1)

	var sessionErr ErrSessionFailed
	if !errors.As(err, &sessionErr) {
		t.Fatalf("got %v, want ErrSessionFailed", err)
	}
}

func TestRunSuccess(t *testing.T) {
	t.Setenv("CSES_USERNAME_1", "alice")
	t.Setenv("CSES_PASSWORD_1", "hunter2")

	sess := &fakeSession{title: "CSES - Problem Set", html: listHTML}
	svc, store, _ := newTestService(t, sess, nil)

	result, err := svc.Run(1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Status != "success" {
		t.Errorf("status: got %q", result.Status)
	}
	if result.SolvedCount != 1 || result.TotalProblems != 2 {
		t.Errorf("counts: got %d/%d, want 1/2", result.SolvedCount, result.TotalProblems)
	}
	if result.Message != "Data saved for user alice" {
		t.Errorf("message: got %q", result.Message)
	}

	for _, path := range []string{result.Files.Solved, result.Files.Unsolved, result.Files.Stats} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("artifact missing: %s", path)
		}
	}
	if filepath.Base(result.Files.Stats) != "stats.json" {
		t.Errorf("stats artifact: got %s", result.Files.Stats)
	}

	if !sess.closed {
		t.Error("session must be closed after a successful run")
	}

	files := userFiles(t, store, "alice")
	if len(files) != 3 {
		t.Errorf("expected 3 artifacts, got %v", files)
	}
}
