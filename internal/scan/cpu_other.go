//go:build !amd64 && !arm64

package scan

// Other architectures keep the single-word loop.
