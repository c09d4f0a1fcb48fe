//go:build amd64

package scan

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasAVX2 {
		bulkWidth = wideWidth
	}
}
