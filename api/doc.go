// File: api/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contracts and the error taxonomy shared by the ring buffer and the
// integration packages built on it.
package api
