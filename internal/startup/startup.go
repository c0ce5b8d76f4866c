package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Entry describes what gets registered to run at login
type Entry struct {
	Label string // reverse-DNS identifier
	Name  string // display name
	Exec  string // absolute path of the executable
}

// App returns the entry for the running executable
func App() (Entry, error) {
	execPath, err := os.Executable()
	if err != nil {
		return Entry{}, err
	}
	return Entry{Label: "com.pixpmusic.gopherflexi", Name: "GopherFlexi", Exec: execPath}, nil
}

type launcher interface {
	enable(e Entry) error
	disable(e Entry) error
	enabled(e Entry) bool
}

var launchers = map[string]launcher{
	"darwin":  launchAgent{},
	"linux":   autostart{},
	"windows": runKey{},
}

func current() (launcher, Entry, error) {
	l, ok := launchers[runtime.GOOS]
	if !ok {
		return nil, Entry{}, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	e, err := App()
	if err != nil {
		return nil, Entry{}, err
	}
	return l, e, nil
}

// Enable registers the application to launch at system startup
func Enable() error {
	l, e, err := current()
	if err != nil {
		return err
	}
	return l.enable(e)
}

// Disable removes the application from system startup
func Disable() error {
	l, e, err := current()
	if err != nil {
		return err
	}
	return l.disable(e)
}

// IsEnabled checks if the application is registered for startup
func IsEnabled() bool {
	l, e, err := current()
	if err != nil {
		return false
	}
	return l.enabled(e)
}

// Set enables or disables startup registration
func Set(on bool) error {
	if on {
		return Enable()
	}
	return Disable()
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func removeFile(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil // Already disabled
	}
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// --- macOS ---

type launchAgent struct{}

func (launchAgent) path(e Entry) string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "LaunchAgents", e.Label+".plist")
}

func (launchAgent) content(e Entry) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>%s</string>
    <key>ProgramArguments</key>
    <array>
        <string>%s</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
</dict>
</plist>
`, e.Label, e.Exec)
}

func (l launchAgent) enable(e Entry) error  { return writeFile(l.path(e), l.content(e)) }
func (l launchAgent) disable(e Entry) error { return removeFile(l.path(e)) }
func (l launchAgent) enabled(e Entry) bool  { return exists(l.path(e)) }

// --- Linux ---

type autostart struct{}

func (autostart) path(e Entry) string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "autostart", strings.ToLower(e.Name)+".desktop")
}

func (autostart) content(e Entry) string {
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
Hidden=false
NoDisplay=false
X-GNOME-Autostart-enabled=true
`, e.Name, e.Exec)
}

func (a autostart) enable(e Entry) error  { return writeFile(a.path(e), a.content(e)) }
func (a autostart) disable(e Entry) error { return removeFile(a.path(e)) }
func (a autostart) enabled(e Entry) bool  { return exists(a.path(e)) }

// --- Windows ---

const windowsRegistryKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

type runKey struct{}

func (runKey) enable(e Entry) error {
	return exec.Command("reg", "add", windowsRegistryKey,
		"/v", e.Name,
		"/t", "REG_SZ",
		"/d", e.Exec,
		"/f").Run()
}

func (runKey) disable(e Entry) error {
	output, err := exec.Command("reg", "delete", windowsRegistryKey, "/v", e.Name, "/f").CombinedOutput()
	// Ignore error if the key doesn't exist
	if err != nil && !strings.Contains(string(output), "unable to find the specified registry key or value") {
		return err
	}
	return nil
}

func (runKey) enabled(e Entry) bool {
	return exec.Command("reg", "query", windowsRegistryKey, "/v", e.Name).Run() == nil
}
