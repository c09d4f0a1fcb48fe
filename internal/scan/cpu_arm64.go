//go:build arm64

package scan

import "golang.org/x/sys/cpu"

func init() {
	if cpu.ARM64.HasASIMD {
		bulkWidth = wideWidth
	}
}
