package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/switchboard/internal/namebank"
	"github.com/roach88/switchboard/internal/rules"
)

// ErrCodeNameBank marks a name bank that does not load.
const ErrCodeNameBank = "N001"

// ValidationError is one invalid file.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check rules and name bank files",
		Long: `Check configuration files without playing a game.

Files ending in .cue are rules files, checked against the rules schema.
Files ending in .yaml or .yml are name banks, which must hold at least 25
unique names.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (unknown file type)

Examples:
  switchboard validate strict.cue
  switchboard validate strict.cue names.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var errs []ValidationError
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		verr, err := validateFile(path)
		if err != nil {
			return err
		}
		if verr != nil {
			errs = append(errs, *verr)
		}
	}

	result := ValidationResult{Valid: len(errs) == 0, Files: len(files), Errors: errs}
	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result)
}

// validateFile returns a ValidationError for an invalid file, or an
// ExitError for a file it does not know how to check.
func validateFile(path string) (*ValidationError, error) {
	switch filepath.Ext(path) {
	case ".cue":
		_, err := rules.Load(path)
		if err == nil {
			return nil, nil
		}
		verr := &ValidationError{File: path, Message: err.Error()}
		var le *rules.LoadError
		if errors.As(err, &le) {
			verr.Code = le.Code
			verr.Message = le.Message
			if le.Pos.IsValid() {
				verr.Line = le.Pos.Line()
				verr.Column = le.Pos.Column()
			}
		}
		return verr, nil
	case ".yaml", ".yml":
		if _, err := namebank.Load(path); err != nil {
			return &ValidationError{File: path, Code: ErrCodeNameBank, Message: err.Error()}, nil
		}
		return nil, nil
	}
	return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s: expected a .cue rules file or a .yaml name bank", path))
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %d file(s) valid\n", result.Files)
	return nil
}

// outputValidationErrors outputs every invalid file.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	failed := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))

	if formatter.IsJSON() {
		first := result.Errors[0]
		if err := formatter.Error(first.Code, first.Message, result); err != nil {
			return err
		}
		return failed
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", e.File, e.Line, e.Column)
		} else {
			fmt.Fprintln(formatter.Writer, e.File)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Code, e.Message)
	}

	return failed
}
