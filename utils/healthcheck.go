package utils

import (
	"context"
	"sort"
	"strings"
	"time"
)

type HealthStatus struct {
	Status    string            `json:"status"`
	Message   string            `json:"message,omitempty"`
	CheckedAt string            `json:"checked_at"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthChecker is an interface for checking the health of services like Spotify and the scraped sites
type HealthChecker interface {
	CheckHealth(ctx context.Context) (bool, string)
}

// CheckHealth runs every checker in name order and folds the results into one status.
func CheckHealth(ctx context.Context, checkers map[string]HealthChecker) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Message:   "All checks passed",
		CheckedAt: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]string, len(checkers)),
	}

	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	var failed []string
	for _, name := range names {
		ok, message := checkers[name].CheckHealth(ctx)
		status.Checks[name] = message
		if !ok {
			Logger.Warnf("Health check %s failed: %s", name, message)
			failed = append(failed, name)
			continue
		}
		Logger.Debugf("Health check %s passed: %s", name, message)
	}

	if len(failed) > 0 {
		status.Status = "unhealthy"
		status.Message = "Failed checks: " + strings.Join(failed, ", ")
	}
	return status
}

