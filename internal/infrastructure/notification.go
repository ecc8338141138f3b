package infrastructure

import (
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// Notifier posts desktop notifications for finished downloads. Delivery
// is best-effort; a missing notification helper is logged, not surfaced.
type Notifier struct {
	logger  *zap.Logger
	enabled bool
}

// NewNotifier creates a desktop notifier
func NewNotifier(logger *zap.Logger, enabled bool) *Notifier {
	return &Notifier{logger: logger, enabled: enabled}
}

// Notify shows a desktop notification with the given title and message
func (n *Notifier) Notify(title, message string) {
	if !n.enabled {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.Command("osascript", "-e", script)
	case "linux":
		cmd = exec.Command("notify-send", title, message)
	default:
		return
	}

	if err := cmd.Run(); err != nil {
		n.logger.Debug("Desktop notification failed",
			zap.String("title", title),
			zap.Error(err))
	}
}

// NotifyResult picks a success or failure notification for a download
func (n *Notifier) NotifyResult(title string, success bool, detail string) {
	if success {
		n.Notify(title, "Download complete: "+detail)
		return
	}
	n.Notify(title, "Download failed: "+detail)
}
