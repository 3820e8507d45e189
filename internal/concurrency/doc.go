// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrency wrappers for hioload-ring. The ring buffer itself is
// single-goroutine; this package owns the locking. Queue guards one ring
// with a mutex and an overflow policy, and EventLoop drains a Queue in
// batches on a single goroutine and dispatches items to handlers.
package concurrency
