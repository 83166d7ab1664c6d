package startup

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"video-courier/internal/logging"
)

// LogToolChecks verifies the external tools the pipeline shells out to.
// Missing tools are a warning, not a startup failure: jobs will fail
// individually with a clear error if a tool is absent at run time.
func LogToolChecks() {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("EXTERNAL TOOL CHECKS")
	logging.Info("------------------------------------------------------------")

	for _, tool := range []string{"yt-dlp", "ffmpeg", "ffprobe"} {
		if err := checkTool(tool); err != nil {
			logging.Warn("  %s check failed: %v", tool, err)
			logging.Warn("  Jobs depending on %s will fail", tool)
		} else {
			logging.Info("  [OK] %s is available", tool)
		}
	}
}

func checkTool(name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", name)
	}
	logging.Debug("  %s path: %s", name, path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, "--version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get %s version: %w", name, err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}

	return nil
}
