package log

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a CBOR capture stream. It is safe for
// concurrent use.
type FileLogger struct {
	mu      sync.Mutex
	enc     *cbor.Encoder
	dst     io.Closer // nil for streams the logger does not own
	done    bool
	dropped int
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{enc: NewEncoder(f), dst: f}, nil
}

// NewStreamLogger writes events to w, such as stdout. Close leaves w open.
func NewStreamLogger(w io.Writer) *FileLogger {
	return &FileLogger{enc: NewEncoder(w)}
}

// Log appends event. Events logged after Close are discarded.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	if l.enc.Encode(event) != nil {
		l.dropped++
	}
}

// Dropped reports how many events could not be encoded or written.
func (l *FileLogger) Dropped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dropped
}

// Close closes the capture file. Further calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return nil
	}
	l.done = true
	if l.dst == nil {
		return nil
	}
	return l.dst.Close()
}

var _ Logger = (*FileLogger)(nil)
