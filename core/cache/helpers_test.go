package cache

import "testing"

// nopLogger satisfies interfaces.Logger for tests.
type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

// newTestCache constructs a DiskCache in a temp dir and closes it when
// the test ends.
func newTestCache(t *testing.T, opts Options) *DiskCache {
	t.Helper()

	c, err := NewDiskCache(t.TempDir(), opts, nopLogger{})
	if err != nil {
		t.Fatalf("NewDiskCache failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}
