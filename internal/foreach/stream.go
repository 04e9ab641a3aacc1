package foreach

import (
	"io"
	"sync"
)

// tagWriter prefixes every chunk written to it with a tag. The chunk itself
// is forwarded unchanged. Writers of one invocation share mu, so a tag and
// its chunk are never split by a write on the other stream.
type tagWriter struct {
	mu  *sync.Mutex
	w   io.Writer
	tag []byte
}

func (t *tagWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.tag) > 0 {
		if _, err := t.w.Write(t.tag); err != nil {
			return 0, err
		}
	}
	return t.w.Write(p)
}
