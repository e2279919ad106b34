package testutil

import (
	"os/exec"
	"testing"
)

// RequireDocker skips the test when no usable docker daemon is present, so the
// integration suite degrades to a no-op on machines without docker.
func RequireDocker(t *testing.T) {
	t.Helper()

	path, err := exec.LookPath("docker")
	if err != nil {
		t.Skip("docker not installed; skipping integration test")
	}
	if err := exec.Command(path, "info").Run(); err != nil {
		t.Skip("docker daemon not reachable; skipping integration test")
	}
}
