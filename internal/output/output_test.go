package output

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var out, errOut bytes.Buffer
		ctx := WithPrinter(context.Background(), New(&out, &errOut))
		p := FromContext(ctx)
		if p.Writer() != &out {
			t.Error("Writer() should return the stdout buffer")
		}
		if p.ErrWriter() != &errOut {
			t.Error("ErrWriter() should return the stderr buffer")
		}
	})

	t.Run("defaults to process streams", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p.Writer() != os.Stdout {
			t.Error("Writer() should default to os.Stdout")
		}
		if p.ErrWriter() != os.Stderr {
			t.Error("ErrWriter() should default to os.Stderr")
		}
	})
}

func TestPrinter_Writes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf, &bytes.Buffer{})

	p.Print("hello", " ", "world")
	p.Printf(" %d", 42)
	p.Println()
	if got := buf.String(); got != "hello world 42\n" {
		t.Errorf("printer wrote %q, want %q", got, "hello world 42\n")
	}
}
