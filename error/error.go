package error

import "errors"

var (
	ErrNotRequest          = errors.New("message is not a request")
	ErrInvalidMessage      = errors.New("invalid message")
	ErrInvalidArguments    = errors.New("invalid arguments")
	ErrInvalidPathMap      = errors.New("invalid pathMap entry")
	ErrInvalidPort         = errors.New("invalid listen port")
	ErrNoSuchThread        = errors.New("no such thread")
	ErrThreadIDRequired    = errors.New("threadId is required")
	ErrCommandNotSupported = errors.New("command is not supported")
	ErrListenFailed        = errors.New("listen for debuggee failed")
	ErrLaunchFailed        = errors.New("launch debuggee failed")
	ErrConnectionClosed    = errors.New("connection is closed")
	ErrFactoryDisposed     = errors.New("connection factory is disposed")
)
