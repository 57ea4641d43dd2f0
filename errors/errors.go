package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrMalformedEnvelope = fmt.Errorf("malformed envelope")
	ErrMalformedSnapshot = fmt.Errorf("malformed presence snapshot")
	ErrUnknownEnvelope   = fmt.Errorf("unknown envelope type")
	ErrEmptyEnvelope     = fmt.Errorf("envelope carries no message")

	ErrConnectionClosed   = fmt.Errorf("connection closed")
	ErrAlreadyConnected   = fmt.Errorf("connection already in progress")
	ErrEngineStopped      = fmt.Errorf("engine is not running")
	ErrSessionActive      = fmt.Errorf("a session is already active")
	ErrNoActiveSession    = fmt.Errorf("no active session")
	ErrEmptyMessage       = fmt.Errorf("message is empty")
	ErrEmptyChannel       = fmt.Errorf("channel name is empty")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrRequestRejected    = fmt.Errorf("request rejected by server")
	ErrNoStoredToken      = fmt.Errorf("no stored token")
)
