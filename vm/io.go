package vm

import (
	"bufio"
	"io"
	"os"

	"golang.org/x/term"
)

// ByteSink is the destination for the output opcode. It is the only thing
// that opcode touches, per spec.md §4.4.
type ByteSink interface {
	WriteByte(b byte) error
}

// ByteSource is the origin for the input opcode. ok is false exactly on
// end-of-stream; the engine turns that into the documented all-ones
// register value rather than treating it as a fault (spec.md §7.3).
type ByteSource interface {
	ReadByte() (b byte, ok bool, err error)
}

// bufferedSink wraps a bufio.Writer so output is flushed eagerly: the UM
// has no notion of "end of program" buffering, each output opcode is a
// single observable byte emitted to the environment.
type bufferedSink struct {
	w *bufio.Writer
}

// NewStdoutSink returns a ByteSink over os.Stdout, the conventional
// destination spec.md §4.4 describes.
func NewStdoutSink() ByteSink {
	return &bufferedSink{w: bufio.NewWriter(os.Stdout)}
}

// NewSink wraps an arbitrary io.Writer as a ByteSink, chiefly for tests
// that want to capture output in memory.
func NewSink(w io.Writer) ByteSink {
	return &bufferedSink{w: bufio.NewWriter(w)}
}

func (s *bufferedSink) WriteByte(b byte) error {
	if err := s.w.WriteByte(b); err != nil {
		return err
	}
	return s.w.Flush()
}

// rawStdinSource reads stdin one raw byte at a time. When stdin is a
// terminal it is switched into raw mode so input isn't buffered waiting for
// a newline, matching the UM's one-byte-per-instruction input model; when
// stdin is not a terminal (a pipe, a redirected file, a test), raw mode is
// unavailable and unnecessary, and reads fall back to a plain bufio.Reader.
type rawStdinSource struct {
	r        *bufio.Reader
	fd       int
	oldState *term.State
}

// NewStdinSource returns a ByteSource over os.Stdin, putting the terminal
// into raw mode if stdin is attached to one.
func NewStdinSource() (ByteSource, func(), error) {
	fd := int(os.Stdin.Fd())
	src := &rawStdinSource{r: bufio.NewReader(os.Stdin), fd: fd}

	closer := func() {}
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return nil, closer, err
		}
		src.oldState = oldState
		closer = func() { _ = term.Restore(fd, oldState) }
	}

	return src, closer, nil
}

// NewSource wraps an arbitrary io.Reader as a ByteSource, chiefly for tests
// and for piped/non-terminal stdin.
func NewSource(r io.Reader) ByteSource {
	return &rawStdinSource{r: bufio.NewReader(r)}
}

func (s *rawStdinSource) ReadByte() (byte, bool, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, false, nil
		}
		return 0, false, err
	}
	return b, true, nil
}
