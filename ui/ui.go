// Package ui provides all terminal interaction for photon commands.
//
// Production code uses TerminalUI (writes to os.Stdout, reads from
// os.Stdin); tests use RecordingUI, which captures all output and serves
// scripted inputs.
package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text. The
// print layer maps each value to a terminal style; data consumers (JSON,
// tests) see plain text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green: verified / positive
	SeverityWarn                     // yellow: uncertain, needs attention
	SeverityError                    // red: failed / unknown
	SeverityCritical                 // bold: review before signing
)

// StyledText pairs a plain string with a Severity annotation. Pass it to
// [UI.Style] to obtain the coloured string for embedding in a format call:
//
//	u.Info("Destination: %s", u.Style(review.Destination))
type StyledText struct {
	Text     string
	Severity Severity
}

// MarshalJSON serializes StyledText as a plain JSON string, so machine
// consumers never see ANSI codes.
func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI abstracts output, prompts and indentation for the payment flow.
//
// Use [UI.Indent] to get a child UI at one deeper indent level for nested
// prompts. The child shares the same writer and reader, so input sequencing
// is preserved across scopes.
//
// Typical interactive flow in the send command:
//
//	u.Info("Destination (account ID, name*domain or contact)")
//	input := u.Ask(nil)
//	u.Interpret("GBRP...OX2H (Some Exchange)")
type UI interface {
	// Style returns the text of t coloured according to its Severity. When
	// colours are disabled (piped output, RecordingUI) the plain text is
	// returned unchanged.
	Style(t StyledText) string

	// Info writes a neutral status line.
	Info(format string, args ...any)

	// Success writes a positive outcome in green.
	Success(format string, args ...any)

	// Warn writes a non-fatal warning in yellow.
	Warn(format string, args ...any)

	// Error writes a failure in red. It does not exit; callers decide what
	// to do next.
	Error(format string, args ...any)

	// Critical writes data the user must review before signing: the
	// destination, the amount, the memo, the fee.
	Critical(format string, args ...any)

	// Section writes a visual separator centred around a title, e.g.
	// "===== Review before signing =====".
	Section(title string)

	// KeyValue renders an aligned two-column block, label left, value
	// right. Use for compact metadata like Destination/Amount/Memo/Fee.
	KeyValue(rows [][2]string)

	// Table renders a bordered table with an optional header row. Pass nil
	// headers for a clean bordered block.
	Table(headers []string, rows [][]string)

	// Spinner starts an animated spinner with the given message and
	// returns a stop function:
	//
	//	stop := u.Spinner("Resolving destination...")
	//	defer stop()
	Spinner(msg string) func()

	// Interpret writes what photon understood from the user's last input,
	// indented and prefixed with an arrow. Shown right after Ask.
	Interpret(value string)

	// Ask displays a "> " prompt at the current indent level and reads a
	// line. It loops until validate returns nil; a nil validator accepts
	// any input.
	Ask(validate func(string) error) string

	// Confirm asks a yes/no question and returns the answer. An empty
	// response accepts the default.
	Confirm(prompt string, defaultYes bool) bool

	// Choose prints a numbered list of options and returns the 0-based
	// index of the selection.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one indent level deeper, sharing the same
	// writer and reader.
	Indent() UI

	// Writer returns an io.Writer that prepends the current indentation to
	// every line, for functions that take a plain io.Writer.
	Writer() io.Writer
}
