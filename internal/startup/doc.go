// Package startup handles application initialization: environment
// configuration with validated defaults, directory preparation, and
// the structured startup/shutdown log output.
package startup
