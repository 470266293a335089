package feedback

// ExitCode is the exit status of the figgen command.
type ExitCode int

const (
	// Success (0 is the no-error return code in Unix)
	Success ExitCode = iota
	// ErrGeneric Generic error (1 is the reserved "catchall" code in Unix)
	ErrGeneric
	_ // 2 is reserved by the shell for builtin misuse
	// ErrBadArgument is returned for invalid flags, arguments or requests
	ErrBadArgument
	// ErrNetwork is returned when the generation service cannot be reached
	ErrNetwork
	// ErrService is returned when the generation service answers with an error
	ErrService
	// ErrDocument is returned when a document cannot be read or written
	ErrDocument
)
