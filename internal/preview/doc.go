// Package preview serves the generated site locally and rebuilds it when
// content, static files or the template change.
package preview
