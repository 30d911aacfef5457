package main

const (
	exitCodeInvalid  = 2
	exitCodeMismatch = 3
)

type exitError struct {
	code    int
	message string
	silent  bool
}

func (e exitError) Error() string {
	return e.message
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

func exitInvalid(err error) error {
	return exitError{code: exitCodeInvalid, message: err.Error()}
}
