//go:build linux

package walker

import (
	"os"
	"syscall"
	"time"
)

// changeTime reads the inode change time from the stat result.
func changeTime(stat os.FileInfo) (time.Time, bool) {
	st, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
}
