package providers

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// CopilotStatus is the result of Copilot token detection.
type CopilotStatus struct {
	Available bool
	Token     string
	Reason    string
}

// DetectCopilot checks whether the GitHub Models API is usable, preferring
// GITHUB_TOKEN and falling back to `gh auth token`.
func DetectCopilot() CopilotStatus {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return CopilotStatus{Available: true, Token: token, Reason: "GITHUB_TOKEN env"}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return CopilotStatus{Reason: "gh CLI not installed"}
		}
		if ctx.Err() != nil {
			return CopilotStatus{Reason: "gh auth token timed out"}
		}
		return CopilotStatus{Reason: "gh CLI not authenticated"}
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return CopilotStatus{Reason: "gh CLI not authenticated"}
	}
	return CopilotStatus{Available: true, Token: token, Reason: "gh auth token"}
}
