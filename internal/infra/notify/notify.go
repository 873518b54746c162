// Package notify provides best-effort completion chimes and desktop
// notifications. Everything here is fire-and-forget: the core guarantees it
// invokes these at most once per timer zero-crossing and nothing more.
package notify

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// Chime plays the completion sound.
// Fields are ordered to minimize memory padding.
type Chime struct {
	logger domain.Logger
}

// NewChime creates a Chime.
func NewChime(logger domain.Logger) *Chime {
	return &Chime{logger: logger}
}

// PlayChime plays a short completion sound. It tries the platform player and
// falls back to the terminal bell; failures are logged and swallowed.
func (c *Chime) PlayChime() {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("afplay", "/System/Library/Sounds/Glass.aiff")
	default:
		if path, err := exec.LookPath("paplay"); err == nil {
			cmd = exec.Command(path, "/usr/share/sounds/freedesktop/stereo/complete.oga")
		}
	}
	if cmd != nil {
		if err := cmd.Start(); err == nil {
			go func() { _ = cmd.Wait() }()
			return
		}
	}
	// Terminal bell as last resort
	_, _ = os.Stderr.WriteString("\a")
	if c.logger != nil {
		c.logger.Debug("", "notify", "no sound player available, used terminal bell")
	}
}

// Desktop raises system notifications.
type Desktop struct {
	logger domain.Logger
}

// NewDesktop creates a Desktop notifier.
func NewDesktop(logger domain.Logger) *Desktop {
	return &Desktop{logger: logger}
}

// Notify raises a desktop notification, falling back to a log line.
func (d *Desktop) Notify(title, body string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		cmd = exec.Command("osascript", "-e", script)
	default:
		if path, err := exec.LookPath("notify-send"); err == nil {
			cmd = exec.Command(path, title, body)
		}
	}
	if cmd != nil {
		if err := cmd.Start(); err == nil {
			go func() { _ = cmd.Wait() }()
			return
		}
	}
	if d.logger != nil {
		d.logger.Info("", "notify", title+": "+body)
	}
}

// Ensure implementations satisfy the ports.
var (
	_ domain.SoundPlayer = (*Chime)(nil)
	_ domain.Notifier    = (*Desktop)(nil)
)
