package core

// Logger is any leveled logging service. Error reporters (rollbar) and the
// plain console logger both satisfy it; background failures that must not
// disturb the user are routed here instead of the notification center.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
