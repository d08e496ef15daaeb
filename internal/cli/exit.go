package cli

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/avatarshuffle/pkg/errors"
)

// Exit codes returned by the avatarshuffle binary.
const (
	ExitOK          = 0
	ExitFailure     = 1 // upstream, storage or internal failure
	ExitUsage       = 2 // bad input: flags, document, selection, category, prompt
	ExitConfig      = 3 // missing or invalid configuration
	ExitInterrupted = 130
)

// ExitCode maps an error returned by a command to the process exit code.
// A cancelled picker counts as an interruption.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, errCancelled):
		return ExitInterrupted
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidCategory, errors.ErrCodeInvalidPrompt,
		errors.ErrCodeEmptySelection, errors.ErrCodeNoEligibleStyles:
		return ExitUsage
	case errors.ErrCodeConfiguration:
		return ExitConfig
	default:
		return ExitFailure
	}
}
