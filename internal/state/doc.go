// Package state persists per-page fingerprints between builds so unchanged
// pages can be skipped, and keeps a short history of completed builds.
package state
