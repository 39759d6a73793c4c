package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// inputError is a CLI argument problem. Messages include a hint about how
// to fix the invocation.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

// resolvedInput is the detected review mode before target construction.
type resolvedInput struct {
	prNumber int      // > 0 in PR mode
	paths    []string // non-empty in file mode
}

func (r resolvedInput) isPR() bool   { return r.prNumber > 0 }
func (r resolvedInput) isFile() bool { return len(r.paths) > 0 }

const pathLikeChars = `/\*?.`

// resolveInput detects the review mode from positional arguments:
// no arguments is diff mode, a single positive integer is PR mode, and
// path-like or existing arguments are file mode. Mixing integers with
// paths is an error.
func resolveInput(args []string) (resolvedInput, error) {
	if len(args) == 0 {
		return resolvedInput{}, nil
	}

	var integers, others []string
	for _, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil && n > 0 {
			integers = append(integers, arg)
		} else {
			others = append(others, arg)
		}
	}

	if len(integers) > 0 && len(others) > 0 {
		return resolvedInput{}, &inputError{msg: fmt.Sprintf(
			"cannot mix PR number and file paths: %s. Specify either a single PR number or file paths, not both.",
			strings.Join(args, ", "))}
	}

	if len(integers) > 0 {
		if len(integers) > 1 {
			return resolvedInput{}, &inputError{msg: fmt.Sprintf(
				"multiple PR numbers specified: %s. Specify a single PR number for PR mode.",
				strings.Join(integers, ", "))}
		}
		n, _ := strconv.Atoi(integers[0])
		return resolvedInput{prNumber: n}, nil
	}

	for _, arg := range args {
		if strings.ContainsAny(arg, pathLikeChars) || pathExists(arg) {
			return resolvedInput{paths: args}, nil
		}
	}

	return resolvedInput{}, &inputError{msg: fmt.Sprintf(
		"unrecognized argument: %q. Use a PR number, file path, or run without arguments for diff mode.",
		args[0])}
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
