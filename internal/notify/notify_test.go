package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withTrayLockfile(t *testing.T, port string) {
	t.Helper()
	tempDir := t.TempDir()

	oldConfigDir := userConfigDirFunc
	oldFindProcess := findProcessFunc
	t.Cleanup(func() {
		userConfigDirFunc = oldConfigDir
		findProcessFunc = oldFindProcess
	})

	userConfigDirFunc = func() (string, error) { return tempDir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "wakephrase-tray"}, nil
	}

	trayDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lockfile := filepath.Join(trayDir, constants.NotifierLockfileName)
	content := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(lockfile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestBridge_Start(t *testing.T) {
	var got webhookPayload
	var secret string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret = r.Header.Get("X-Wakephrase-Secret")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	withTrayLockfile(t, u.Port())

	alarm := models.Alarm{Label: "Workout", Time: "06:30"}
	if err := NewBridge().Start(alarm); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if secret != "test-secret" {
		t.Errorf("secret header = %q, want %q", secret, "test-secret")
	}
	if !strings.Contains(got.Text, "Workout") || !strings.Contains(got.Text, "06:30") {
		t.Errorf("notification text = %q, want label and time included", got.Text)
	}
	if got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("duration = %d, want %d", got.DurationMs, constants.NotificationDurationMs)
	}
}

func TestBridge_StartWithoutTray(t *testing.T) {
	tempDir := t.TempDir()
	oldConfigDir := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = oldConfigDir })
	userConfigDirFunc = func() (string, error) { return tempDir, nil }

	if err := NewBridge().Start(models.Alarm{Label: "x", Time: "06:30"}); err == nil {
		t.Error("Start() should fail when no tray lockfile exists")
	}
}

func TestFindAndValidateTray(t *testing.T) {
	oldFindProcess := findProcessFunc
	t.Cleanup(func() { findProcessFunc = oldFindProcess })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "wakephrase-tray"}, nil
	}

	writeLockfile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "valid", content: "8080|1234|secret"},
		{name: "missing fields", content: "8080|1234"},
		{name: "bad port", content: "notaport|1234|secret"},
		{name: "port out of range", content: "99999|1234|secret"},
		{name: "empty secret", content: "8080|1234| "},
		{name: "bad pid", content: "8080|abc|secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeLockfile(t, tt.content)
			port, secret, err := findAndValidateTray(path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("findAndValidateTray() = (%q, %q), want error", port, secret)
				}
				return
			}
			if err != nil {
				t.Fatalf("findAndValidateTray() failed: %v", err)
			}
			if port != "8080" || secret != "secret" {
				t.Errorf("findAndValidateTray() = (%q, %q), want (8080, secret)", port, secret)
			}
		})
	}
}

func TestFindAndValidateTray_WrongExecutable(t *testing.T) {
	oldFindProcess := findProcessFunc
	t.Cleanup(func() { findProcessFunc = oldFindProcess })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "malware"}, nil
	}

	path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
	if err := os.WriteFile(path, []byte("8080|1234|secret"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := findAndValidateTray(path); err == nil {
		t.Error("a lockfile pointing at a foreign process must be rejected")
	}
}
