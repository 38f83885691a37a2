package instance

import (
	"os"
	"strings"
)

// GetID returns the process instance identifier used in startup logs.
// DYNO is set on Heroku dynos; HOSTNAME covers containers.
func GetID() string {
	for _, key := range []string{"DYNO", "HOSTNAME"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return "local"
}
