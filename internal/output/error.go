package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	kiterr "github.com/mrz1836/ethkit/pkg/errors"
)

// ErrorOutput is the JSON envelope of a failed command.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// NewErrorDetail extracts the structured fields of err.
func NewErrorDetail(err error) ErrorDetail {
	var ke *kiterr.Error
	if !errors.As(err, &ke) {
		return ErrorDetail{Code: "GENERAL_ERROR", Message: err.Error(), ExitCode: kiterr.ExitGeneral}
	}

	detail := ErrorDetail{
		Code:       ke.Code,
		Message:    ke.Message,
		Details:    ke.Details,
		Suggestion: ke.Suggestion,
		ExitCode:   ke.ExitCode,
	}
	if ke.Cause != nil {
		detail.Cause = ke.Cause.Error()
	}
	return detail
}

// FormatError writes err in format.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := NewErrorDetail(err)
	if format == FormatJSON {
		return writeJSON(w, ErrorOutput{Error: detail})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", detail.Message)
	if detail.Cause != "" {
		fmt.Fprintf(&sb, "Cause: %s\n", detail.Cause)
	}

	if len(detail.Details) > 0 {
		keys := make([]string, 0, len(detail.Details))
		for k := range detail.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %s\n", k, detail.Details[k])
		}
	}

	if detail.Suggestion != "" {
		fmt.Fprintf(&sb, "\nSuggestion: %s\n", detail.Suggestion)
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess writes a success message.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, map[string]string{"status": "success", "message": message})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
