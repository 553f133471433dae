// Package resource bounds the memory and build concurrency of an index run.
//
//   - Memory: growable block stores reserve bytes before they grow (fail-fast).
//   - Background: per-sequence pyramid builders hold a slot while they run.
//
// All methods handle a nil Controller as "unlimited", so callers never need nil checks.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:     8 << 30,
//	    MaxBackgroundWorkers: 4,
//	})
//	if err := rc.AcquireMemory(n); err != nil {
//	    return err // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(n)
package resource
