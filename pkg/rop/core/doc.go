// Package core contains worker plumbing: job channel helpers, worker
// configuration carried by context, and the locomotive loop that drives one
// worker. It holds no pipeline semantics; package batch builds on it.
package core
