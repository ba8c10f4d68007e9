package httpx

import (
	"errors"
	"net"
	"os"
	"runtime"
	"strconv"
	"syscall"

	"github.com/cascade-live/cascade/pkg/logger"
)

const maxPortRollAttempts = 42

type Listener struct {
	net.Listener
}

// NewListener listens the TCP address, and if the port is taken,
// optionally tries next ports one by one.
func NewListener(address string, rollPorts bool, log *logger.Logger) (*Listener, error) {
	ls, err := net.Listen("tcp", address)
	if err != nil {
		if rollPorts && isErrorAddressAlreadyInUse(err) {
			host, p, _ := net.SplitHostPort(address)
			port, _ := strconv.Atoi(p)
			for i := port + 1; i < port+maxPortRollAttempts; i++ {
				ls, err = net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(i)))
				if err == nil {
					log.Warn().Msgf("Port %v is busy, using %v", port, i)
					return &Listener{ls}, nil
				}
			}
		}
		return nil, err
	}
	return &Listener{ls}, nil
}

func (l Listener) GetPort() int {
	tcp, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0
	}
	return tcp.Port
}

func isErrorAddressAlreadyInUse(err error) bool {
	var eOsSyscall *os.SyscallError
	if !errors.As(err, &eOsSyscall) {
		return false
	}
	var errErrno syscall.Errno
	if !errors.As(eOsSyscall, &errErrno) {
		return false
	}
	if errErrno == syscall.EADDRINUSE {
		return true
	}
	const WSAEADDRINUSE = 10048
	if runtime.GOOS == "windows" && errErrno == WSAEADDRINUSE {
		return true
	}
	return false
}
