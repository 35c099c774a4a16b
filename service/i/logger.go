package i

// Logger is the leveled logger every component writes to.
type Logger interface {
	Info(string)
	Warning(string)
	Error(string)
	Debug(string)
}
