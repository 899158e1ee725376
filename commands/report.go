package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ayunami2000/sdgen/config"
	"github.com/ayunami2000/sdgen/sdapi"
)

const (
	ExitOK    = 0
	ExitError = 1
)

// ReportError prints err for a human and returns the process exit code.
func ReportError(w io.Writer, name string, err error) int {
	if err == nil {
		return ExitOK
	}

	if kind := sdapi.KindOf(err); kind != nil {
		reportAPIError(w, kind, err)
		return ExitError
	}

	switch {
	case errors.Is(err, ErrPromptRequired):
		fmt.Fprintf(w, "Error: Prompt is required\n")
		fmt.Fprintf(w, "Usage: %s [flags] \"your prompt here\"\n", name)
		fmt.Fprintf(w, "Run '%s help' for all options.\n", name)
	case errors.Is(err, config.ErrAPIURLRequired):
		fmt.Fprintf(w, "Error: API URL is required\n")
		fmt.Fprintf(w, "Set it with --api-url or the %s_API_URL environment variable, e.g.\n", config.EnvPrefix)
		fmt.Fprintf(w, "  %s --api-url https://abc123.ngrok.io \"a cat\"\n", name)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(w, "\n⚠️  Interrupted by user\n")
	case errors.Is(err, ErrSave):
		fmt.Fprintf(w, "\n❌ Save Error: %v\n", err)
	default:
		fmt.Fprintf(w, "\n❌ Unexpected Error: %v\n", err)
	}

	return ExitError
}

func reportAPIError(w io.Writer, kind, err error) {
	switch kind {
	case sdapi.ErrInterrupted:
		fmt.Fprintf(w, "\n⚠️  Interrupted by user\n")
	case sdapi.ErrValidation:
		fmt.Fprintf(w, "\n❌ Validation Error: %v\n", err)
	case sdapi.ErrConnection:
		fmt.Fprintf(w, "\n❌ Connection Error: %v\n", err)
		fmt.Fprintf(w, "\nPlease check:\n")
		fmt.Fprintf(w, "  1. Is the remote notebook running?\n")
		fmt.Fprintf(w, "  2. Is the API URL correct?\n")
		fmt.Fprintf(w, "  3. Is the ngrok tunnel active?\n")
	case sdapi.ErrTimeout:
		fmt.Fprintf(w, "\n❌ Timeout: %v\n", err)
		fmt.Fprintf(w, "Try increasing the timeout with --timeout\n")
	case sdapi.ErrInvalidResponse:
		fmt.Fprintf(w, "\n❌ Invalid Response: %v\n", err)
	default:
		fmt.Fprintf(w, "\n❌ Generation Error: %v\n", err)
	}
}
