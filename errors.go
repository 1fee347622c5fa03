package main

import "fmt"

// RuntimeError is an operational error which prevented the tests from running.
type RuntimeError struct {
	op  string
	err error
}

func newRuntimeError(op string, err error) *RuntimeError {
	return &RuntimeError{op: op, err: err}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("failed to %s: %s", e.op, e.err)
}

func (e *RuntimeError) Unwrap() error {
	return e.err
}
