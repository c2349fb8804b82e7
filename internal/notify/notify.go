package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/wakephrase/wakephrase/internal/constants"
	"github.com/wakephrase/wakephrase/internal/models"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Bridge drives desktop notifications through the local tray helper. It is
// the attention side channel while an alarm rings, alongside the audio tone.
// The tray is discovered via a lockfile holding "port|pid|secret".
type Bridge struct{}

type webhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Start pushes a ringing notification for the alarm.
func (b *Bridge) Start(alarm models.Alarm) error {
	return b.send(fmt.Sprintf("%s — alarm ringing (%s)", alarm.Label, alarm.Time))
}

// Stop is a no-op for the tray surface; notifications expire on their own.
func (b *Bridge) Stop() error {
	return nil
}

func (b *Bridge) send(text string) error {
	configDir, err := trayConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTray(filepath.Join(configDir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return post(port, secret, webhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

func trayConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.TrayAppIdentifier), nil
}

func findAndValidateTray(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("tray helper is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port, pidStr, secret := parts[0], parts[1], parts[2]
	portNum, err := strconv.Atoi(port)
	if err != nil || portNum < 1 || portNum > 65535 {
		return "", "", errors.New("invalid port in lockfile")
	}
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("tray helper process not running")
	}
	if !strings.HasPrefix(process.Executable(), "wakephrase-tray") {
		return "", "", fmt.Errorf("process with PID %d is not wakephrase-tray (is %s)", pid, process.Executable())
	}

	return port, secret, nil
}

func post(port, secret string, payload webhookPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://127.0.0.1:%s", port), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Wakephrase-Secret", secret)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}
