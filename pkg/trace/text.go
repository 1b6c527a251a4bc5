package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/muesli/termenv"
)

// Color modes accepted by TextOptions.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// TextOptions configures the text trace.
type TextOptions struct {
	// Color is one of ColorAuto (default), ColorAlways or ColorNever.
	// Auto enables colour only when the writer is a terminal.
	Color string
	// Format renders states and symbols. Defaults to FormatValue.
	Format func(v any) string
}

// FormatValue prints runes and bytes as characters and anything else with %v.
func FormatValue(v any) string {
	switch x := v.(type) {
	case rune:
		return string(x)
	case byte:
		return string(rune(x))
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Text returns hooks that write one line per transition to w:
//
//	A 0 => B 1 Right
func Text[S, Y comparable](w io.Writer, opts TextOptions) domain.LifecycleHooks[S, Y] {
	out := newOutput(w, opts.Color)
	format := opts.Format
	if format == nil {
		format = FormatValue
	}

	state := func(v S) string {
		return out.String(format(v)).Foreground(out.Color("#a78bfa")).Bold().String()
	}
	symbol := func(v Y) string {
		return out.String(format(v)).Foreground(out.Color("#f472b6")).String()
	}

	return domain.LifecycleHooks[S, Y]{
		OnStep: func(e *domain.StepEvent[S, Y]) {
			fmt.Fprintf(out, "%s %s => %s %s %s\n",
				state(e.From), symbol(e.Read), state(e.To), symbol(e.Write), e.Move)
		},
	}
}

// Tape renders tape cells on one line, bracketing the cell under the head.
func Tape[Y any](cells []Y, head int, format func(any) string) string {
	if format == nil {
		format = FormatValue
	}
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(' ')
		}
		if i == head {
			b.WriteString("[" + format(c) + "]")
		} else {
			b.WriteString(format(c))
		}
	}
	return b.String()
}

func newOutput(w io.Writer, mode string) *termenv.Output {
	switch mode {
	case ColorAlways:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.ANSI256))
	case ColorNever:
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	default:
		return termenv.NewOutput(w)
	}
}
