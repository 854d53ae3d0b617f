package instance

import (
	"os"
	"strings"
)

// ID identifies this API process in logs and health responses. It prefers
// BACKOFFICE_INSTANCE_ID, then the platform dyno name, then the hostname.
func ID() string {
	for _, key := range []string{"BACKOFFICE_INSTANCE_ID", "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
