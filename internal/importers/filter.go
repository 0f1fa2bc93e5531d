package importers

import "time"

const secondsPerDay = 86400

// RecencyFilter keeps records whose timestamp is at most Days days old.
// Days <= 0 disables the filter.
type RecencyFilter struct {
	Days int
}

// Include reports whether a record stamped ts (unix seconds) survives the
// filter at the given moment. The cutoff itself is inclusive.
func (f RecencyFilter) Include(ts int64, now time.Time) bool {
	if f.Days <= 0 {
		return true
	}
	cutoff := now.Unix() - int64(f.Days)*secondsPerDay
	return ts >= cutoff
}
