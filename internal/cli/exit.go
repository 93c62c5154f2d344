package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/sizereport/pkg/errors"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1   // a transform, artifact or I/O failure
	ExitUsage       = 2   // bad flags, config, columns or paths
	ExitInterrupted = 130 // shell convention for SIGINT
)

// usageCodes are the error codes caused by how the tool was invoked rather
// than by the files being measured.
var usageCodes = []errors.Code{
	errors.ErrCodeInvalidInput,
	errors.ErrCodeInvalidConfig,
	errors.ErrCodeInvalidColumn,
	errors.ErrCodeInvalidAlgorithm,
	errors.ErrCodeInvalidLevel,
	errors.ErrCodeInvalidPattern,
	errors.ErrCodeInvalidPath,
}

// ExitCode maps an error returned by the root command to a process exit code.
// Only the outermost code counts, so a TRANSFORM_FAILED wrapping an
// INVALID_LEVEL is a failure, not a usage error.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	code := errors.GetCode(err)
	for _, c := range usageCodes {
		if code == c {
			return ExitUsage
		}
	}
	return ExitFailure
}

// PrintError writes err to w as a single line. Coded errors are shown by
// message, outermost first, followed by their code.
func PrintError(w io.Writer, err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}
	msg := describe(err)
	if code := errors.GetCode(err); code != "" {
		msg += " " + StyleDim.Render("["+string(code)+"]")
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}

// describe joins the messages along err's chain without their code prefixes.
func describe(err error) string {
	var parts []string
	for err != nil {
		var e *errors.Error
		if !stderrors.As(err, &e) {
			parts = append(parts, err.Error())
			break
		}
		if e.Message != "" {
			parts = append(parts, e.Message)
		}
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}
