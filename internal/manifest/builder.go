package manifest

import (
	"fmt"
	"os"
	"os/user"
)

// Builder identifies the machine and account that produced a bundle.
type Builder struct {
	Hostname string `yaml:"hostname"`
	Username string `yaml:"username"`
}

// DetectBuilder gathers host and user information for the manifest.
func DetectBuilder() (*Builder, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Builder{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
