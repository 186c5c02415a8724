package tile

import (
	"errors"
	"io"
	"syscall"

	"github.com/golang/glog"
)

// MaxRead bounds a single read, larger than any modem message.
const MaxRead = 800

// Reader reads lines from a zero-timeout transport.
// There is no buffering across reads: one read is one Line,
// even if it holds a partial line on a slow link.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader creates a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, MaxRead)}
}

// ReadLine performs one read. An empty Line with nil error means
// no data was ready, which is the common case.
func (r *Reader) ReadLine() (Line, error) {
	n, err := r.r.Read(r.buf)
	if err != nil && noData(err) {
		err = nil
	}
	if n <= 0 {
		return "", err
	}
	line := Line(r.buf[:n])
	if glog.V(2) {
		glog.Infof("RCV %q", line.String())
	}
	return line, err
}

// noData tells if err only means nothing was available.
// Other temporary conditions, like EMFILE, are real errors.
func noData(err error) bool {
	if err == io.EOF || errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// Writer writes frames to the transport.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteCommand frames cmd and writes it.
func (w *Writer) WriteCommand(cmd []byte) (Frame, error) {
	f := Encode(cmd)
	return f, w.WriteFrame(f)
}

// WriteFrame writes an encoded frame.
func (w *Writer) WriteFrame(f Frame) error {
	if glog.V(2) {
		glog.Infof("SND %q", f.String())
	}
	_, err := f.WriteTo(w.w)
	return err
}
