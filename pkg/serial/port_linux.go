package serial

import (
	"sync"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

var baudRates = map[int]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// Port is a termios configured tty.
type Port struct {
	path string
	lock sync.Mutex
	fd   int
}

// Open opens the tty at path in raw 8N1 mode.
func Open(path string, baud int) (*Port, error) {
	speed, ok := baudRates[baud]
	if !ok {
		return nil, errors.NotSupportedf("baud rate %d", baud)
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NONBLOCK, 0600)
	if err != nil {
		return nil, errors.Annotatef(err, "serial open %s", path)
	}
	if err = setRaw(fd, speed); err != nil {
		unix.Close(fd)
		return nil, errors.Annotatef(err, "serial termios %s", path)
	}
	// O_NONBLOCK only guards open against modem control lines,
	// VMIN=0 VTIME=0 keeps reads from blocking.
	if err = unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, errors.Annotatef(err, "serial open %s", path)
	}
	return &Port{path: path, fd: fd}, nil
}

func setRaw(fd int, speed uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP | unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF
	t.Oflag &^= unix.OPOST
	t.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	t.Cflag &^= unix.CSIZE | unix.PARENB | unix.CSTOPB | unix.CRTSCTS | unix.CBAUD
	t.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	t.Ispeed = speed
	t.Ospeed = speed
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0
	if err = unix.IoctlSetTermios(fd, unix.TCSETS, t); err != nil {
		return err
	}
	return unix.IoctlSetInt(fd, unix.TCFLSH, unix.TCIOFLUSH)
}

// Path returns the device path.
func (p *Port) Path() string {
	return p.path
}

// Read implements io.Reader.
func (p *Port) Read(b []byte) (int, error) {
	fd, err := p.file()
	if err != nil {
		return 0, err
	}
	n, err := unix.Read(fd, b)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	fd, err := p.file()
	if err != nil {
		return 0, err
	}
	written := 0
	for written < len(b) {
		n, err := unix.Write(fd, b[written:])
		if n > 0 {
			written += n
		}
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return written, errors.Annotatef(err, "serial write %s", p.path)
		}
	}
	return written, nil
}

// Close implements io.Closer.
func (p *Port) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.fd < 0 {
		return nil
	}
	err := unix.Close(p.fd)
	p.fd = -1
	return err
}

func (p *Port) file() (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.fd < 0 {
		return -1, errors.Errorf("serial %s closed", p.path)
	}
	return p.fd, nil
}
