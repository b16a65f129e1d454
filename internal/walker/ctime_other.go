//go:build !linux && !darwin

package walker

import (
	"os"
	"time"
)

// changeTime is unavailable on platforms without a ctime stat field;
// the summary column stays empty there.
func changeTime(os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
