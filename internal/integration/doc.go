// Package integration exercises forage-wt end to end.
//
// Workflow tests run everywhere: they drive the lifecycle manager against a
// mock runtime, with either the mock worktree backend or a real git
// repository when git is installed.
//
// Container tests are skipped unless FORAGE_WT_INTEGRATION_TESTS is set.
// They need:
//   - git
//   - podman or docker, selected with FORAGE_WT_RUNTIME (default auto)
//   - permission to build images and run containers
//
// # Test Harness
//
// TestHarness owns a real repository and cleans up what a test creates:
//
//	func TestMyIntegration(t *testing.T) {
//	    h := integration.NewHarness(t) // Skips if env var not set
//
//	    branch := h.Branch("smoke")
//	    if err := h.Manager().Open(ctx, branch); err != nil {
//	        t.Fatal(err)
//	    }
//
//	    // Cleanup is automatic via t.Cleanup
//	}
//
// # Running Integration Tests
//
//	FORAGE_WT_INTEGRATION_TESTS=1 go test -v ./internal/integration/...
package integration
