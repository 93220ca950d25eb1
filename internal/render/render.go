// Package render owns all terminal presentation: colors, emphasis-token
// expansion, the progress bar, and the session report table. Bank files store
// plain text with optional {TOKEN} emphasis markers; nothing outside this
// package interprets them.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// tokenRe matches {TOKEN}-style emphasis markers embedded in stored text.
var tokenRe = regexp.MustCompile(`\{[A-Z0-9_]+\}`)

// tokenAttrs maps marker names to color attributes.
var tokenAttrs = map[string]color.Attribute{
	"{BLACK}":          color.FgBlack,
	"{RED}":            color.FgRed,
	"{GREEN}":          color.FgGreen,
	"{YELLOW}":         color.FgYellow,
	"{BLUE}":           color.FgBlue,
	"{MAGENTA}":        color.FgMagenta,
	"{CYAN}":           color.FgCyan,
	"{WHITE}":          color.FgWhite,
	"{BRIGHT_BLACK}":   color.FgHiBlack,
	"{BRIGHT_RED}":     color.FgHiRed,
	"{BRIGHT_GREEN}":   color.FgHiGreen,
	"{BRIGHT_YELLOW}":  color.FgHiYellow,
	"{BRIGHT_BLUE}":    color.FgHiBlue,
	"{BRIGHT_MAGENTA}": color.FgHiMagenta,
	"{BRIGHT_CYAN}":    color.FgHiCyan,
	"{BRIGHT_WHITE}":   color.FgHiWhite,
}

const resetToken = "{RESET}"

// Expand converts stored text into displayable text: literal \n and \t
// escapes become real characters, {BACKSLASH} becomes a backslash, and
// emphasis tokens become the matching terminal escape. Unknown tokens are
// left as-is so typos stay visible.
func Expand(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\t`, "\t")
	text = strings.ReplaceAll(text, "{BACKSLASH}", `\`)
	return tokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		if tok == resetToken {
			return "\x1b[0m"
		}
		if attr, ok := tokenAttrs[tok]; ok {
			return fmt.Sprintf("\x1b[%dm", attr)
		}
		return tok
	})
}

// Strip removes emphasis tokens and escape markers entirely, producing the
// plain text used for answer comparison and exports.
func Strip(text string) string {
	if text == "" {
		return text
	}
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, `\t`, "\t")
	text = strings.ReplaceAll(text, "{BACKSLASH}", `\`)
	text = tokenRe.ReplaceAllStringFunc(text, func(tok string) string {
		if tok == resetToken {
			return ""
		}
		if _, ok := tokenAttrs[tok]; ok {
			return ""
		}
		return tok
	})
	return strings.TrimSpace(text)
}

// Renderer writes styled output to Out. Clearing the screen is configurable
// so tests and non-interactive runs can disable it.
type Renderer struct {
	Out         io.Writer
	ClearScreen bool

	title   *color.Color
	success *color.Color
	failure *color.Color
	warn    *color.Color
	hint    *color.Color
	label   *color.Color
}

// New returns a Renderer writing to out.
func New(out io.Writer, clearScreen bool) *Renderer {
	return &Renderer{
		Out:         out,
		ClearScreen: clearScreen,
		title:       color.New(color.FgHiCyan, color.Bold),
		success:     color.New(color.FgGreen),
		failure:     color.New(color.FgRed),
		warn:        color.New(color.FgYellow),
		hint:        color.New(color.FgCyan),
		label:       color.New(color.FgHiGreen),
	}
}

// Clear wipes the terminal when enabled.
func (r *Renderer) Clear() {
	if r.ClearScreen {
		fmt.Fprint(r.Out, "\x1b[2J\x1b[H")
	}
}

func (r *Renderer) Printf(format string, args ...any) {
	fmt.Fprintf(r.Out, format, args...)
}

func (r *Renderer) Println(args ...any) {
	fmt.Fprintln(r.Out, args...)
}

func (r *Renderer) Title(text string) {
	r.title.Fprintf(r.Out, "\n===== %s =====\n", text)
}

func (r *Renderer) Success(format string, args ...any) {
	r.success.Fprintf(r.Out, format+"\n", args...)
}

func (r *Renderer) Failure(format string, args ...any) {
	r.failure.Fprintf(r.Out, format+"\n", args...)
}

func (r *Renderer) Warn(format string, args ...any) {
	r.warn.Fprintf(r.Out, format+"\n", args...)
}

func (r *Renderer) Hint(format string, args ...any) {
	r.hint.Fprintf(r.Out, format+"\n", args...)
}

// Question prints one presented question with its numbered position.
func (r *Renderer) Question(index int, text string) {
	fmt.Fprintf(r.Out, "\n%s\n", strings.Repeat("=", 48))
	fmt.Fprintf(r.Out, "%d. ❓ %s\n\n", index, Expand(text))
}

// Option prints one labelled choice.
func (r *Renderer) Option(letter, text string) {
	r.label.Fprintf(r.Out, "  %s) ", letter)
	fmt.Fprintf(r.Out, "%s\n", Expand(text))
}

// ProgressBar renders a fixed-width percent bar.
func ProgressBar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(float64(width) * percent / 100)
	return fmt.Sprintf("[%s%s] %.1f%%",
		strings.Repeat("=", filled), strings.Repeat(" ", width-filled), percent)
}
