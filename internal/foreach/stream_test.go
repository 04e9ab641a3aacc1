package foreach

import (
	"bytes"
	"sync"
	"testing"
)

func TestTagWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var mu sync.Mutex
	w := &tagWriter{mu: &mu, w: &buf, tag: []byte("STDOUT ")}

	for _, chunk := range []string{"one\n", "", "two\nthree"} {
		n, err := w.Write([]byte(chunk))
		if err != nil {
			t.Fatal(err)
		}
		if n != len(chunk) {
			t.Errorf("Write(%q) = %d, want %d", chunk, n, len(chunk))
		}
	}
	if want := "STDOUT one\nSTDOUT two\nthree"; buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTagWriter_NoTag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := &tagWriter{mu: &sync.Mutex{}, w: &buf}
	_, _ = w.Write([]byte("raw \x1b[31mbytes\x1b[0m"))
	if buf.String() != "raw \x1b[31mbytes\x1b[0m" {
		t.Errorf("output = %q, want bytes unchanged", buf.String())
	}
}
