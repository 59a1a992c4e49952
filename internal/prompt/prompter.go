// Package prompt asks the user for a single validated line of input.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

const (
	questionTemplateConstant      = "%s "
	helpTemplateConstant          = "%s\n"
	inputClosedMessageConstant    = "prompt input closed before a valid answer was given"
	promptAbortedMessageConstant  = "prompt aborted"
	readFailureTemplateConstant   = "failed to read prompt answer: %w"
	formFailureTemplateConstant   = "prompt form failed: %w"
	invalidAnswerFallbackConstant = "invalid answer"
)

var (
	// ErrInputClosed indicates the input ended before a valid answer was read.
	ErrInputClosed = errors.New(inputClosedMessageConstant)
	// ErrPromptAborted indicates the user cancelled the prompt.
	ErrPromptAborted = errors.New(promptAbortedMessageConstant)
)

// Validator rejects an answer by returning an error.
type Validator func(answer string) error

// Prompter asks question until validator accepts the trimmed answer, showing help after each rejection.
type Prompter interface {
	Ask(executionContext context.Context, question string, help string, validator Validator) (string, error)
}

// IOPrompter asks questions line by line over plain streams.
type IOPrompter struct {
	reader *bufio.Reader
	output io.Writer
}

// NewIOPrompter constructs an IOPrompter.
func NewIOPrompter(input io.Reader, output io.Writer) *IOPrompter {
	return &IOPrompter{reader: bufio.NewReader(input), output: output}
}

// Ask implements Prompter.
func (prompter *IOPrompter) Ask(executionContext context.Context, question string, help string, validator Validator) (string, error) {
	for {
		if executionContext != nil {
			if contextError := executionContext.Err(); contextError != nil {
				return "", contextError
			}
		}

		fmt.Fprintf(prompter.output, questionTemplateConstant, question)
		line, readError := prompter.reader.ReadString('\n')
		if readError != nil && !errors.Is(readError, io.EOF) {
			return "", fmt.Errorf(readFailureTemplateConstant, readError)
		}

		answer := strings.TrimSpace(line)
		validationError := validate(validator, answer)
		if validationError == nil {
			return answer, nil
		}
		if readError != nil {
			return "", ErrInputClosed
		}
		fmt.Fprintf(prompter.output, helpTemplateConstant, helpFor(help, validationError))
	}
}

// FormPrompter asks questions with an interactive terminal form.
type FormPrompter struct {
	input  io.Reader
	output io.Writer
}

// NewFormPrompter constructs a FormPrompter over the given terminal streams.
func NewFormPrompter(input io.Reader, output io.Writer) *FormPrompter {
	return &FormPrompter{input: input, output: output}
}

// Ask implements Prompter. The form shows help as the field description and keeps the user in the field until validator accepts.
func (prompter *FormPrompter) Ask(executionContext context.Context, question string, help string, validator Validator) (string, error) {
	var answer string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(question).
				Description(help).
				Value(&answer).
				Validate(func(value string) error {
					return validate(validator, strings.TrimSpace(value))
				}),
		),
	).WithInput(prompter.input).WithOutput(prompter.output)

	if executionContext == nil {
		executionContext = context.Background()
	}
	if runError := form.RunWithContext(executionContext); runError != nil {
		if errors.Is(runError, huh.ErrUserAborted) {
			return "", ErrPromptAborted
		}
		return "", fmt.Errorf(formFailureTemplateConstant, runError)
	}
	return strings.TrimSpace(answer), nil
}

// NewTerminalPrompter picks FormPrompter when stdin and stdout are terminals and IOPrompter otherwise.
func NewTerminalPrompter(input *os.File, output *os.File) Prompter {
	if term.IsTerminal(int(input.Fd())) && term.IsTerminal(int(output.Fd())) {
		return NewFormPrompter(input, output)
	}
	return NewIOPrompter(input, output)
}

// IsInteractive reports whether input is attached to a terminal.
func IsInteractive(input *os.File) bool {
	return input != nil && term.IsTerminal(int(input.Fd()))
}

func validate(validator Validator, answer string) error {
	if validator == nil {
		return nil
	}
	return validator(answer)
}

func helpFor(help string, validationError error) string {
	if trimmedHelp := strings.TrimSpace(help); len(trimmedHelp) > 0 {
		return trimmedHelp
	}
	if validationError != nil {
		return validationError.Error()
	}
	return invalidAnswerFallbackConstant
}
