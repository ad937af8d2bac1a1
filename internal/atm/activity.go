package atm

// activityLog is a fixed-capacity ring of activity lines. Pushing past
// capacity overwrites the oldest line.
type activityLog struct {
	buf  []string
	head uint64 // next write position
	n    int
}

func newActivityLog(capacity int) *activityLog {
	return &activityLog{buf: make([]string, capacity)}
}

func (l *activityLog) Push(line string) {
	l.buf[l.head%uint64(len(l.buf))] = line
	l.head++
	if l.n < len(l.buf) {
		l.n++
	}
}

func (l *activityLog) Len() int { return l.n }

func (l *activityLog) Cap() int { return len(l.buf) }

// Latest returns up to limit lines, most recent first. limit <= 0 means all.
func (l *activityLog) Latest(limit int) []string {
	if limit <= 0 || limit > l.n {
		limit = l.n
	}
	out := make([]string, 0, limit)
	size := uint64(len(l.buf))
	for i := uint64(1); i <= uint64(limit); i++ {
		out = append(out, l.buf[(l.head-i)%size])
	}
	return out
}
