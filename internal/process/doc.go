// Package process runs a subprocess to completion while streaming its
// output through structured logging. The subprocess gets its own
// process group so signals can be delivered cleanly, and cancellation
// sends SIGINT first with a bounded wait before escalating to SIGKILL.
package process
