// Package tools holds source-level utilities that sit beside the
// pipeline rather than in it: a formatter, a linter and a label
// cross-referencer for assembly files.
package tools

import (
	"strings"
)

// FormatOptions controls formatter behavior
type FormatOptions struct {
	LabelColumn       int  // Column for labels (default: 0)
	InstructionColumn int  // Column for instructions (default: 8)
	CommentColumn     int  // Column for trailing comments (default: 32)
	AlignComments     bool // Align trailing comments in a column
	PreserveBlank     bool // Keep blank lines
	TabWidth          int  // Tab width (for expanding tabs)
}

// DefaultFormatOptions returns default formatter options
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		LabelColumn:       0,
		InstructionColumn: 8,
		CommentColumn:     32,
		AlignComments:     true,
		PreserveBlank:     true,
		TabWidth:          8,
	}
}

// FormatSource reformats assembly text: labels at the label column,
// mnemonics indented to the instruction column, operands separated by
// single spaces (commas from other assemblers' syntax are rewritten,
// since this grammar has none), trailing comments aligned. Every other
// non-blank line is treated as a statement and reformatted the same
// way; the formatter does not check that a line is valid assembly.
func FormatSource(src string, opts *FormatOptions) string {
	if opts == nil {
		opts = DefaultFormatOptions()
	}

	var out []string
	for _, line := range strings.Split(src, "\n") {
		out = append(out, formatLine(line, opts))
	}

	if !opts.PreserveBlank {
		compact := out[:0]
		for _, line := range out {
			if strings.TrimSpace(line) != "" {
				compact = append(compact, line)
			}
		}
		out = compact
	}

	return strings.Join(out, "\n")
}

func formatLine(line string, opts *FormatOptions) string {
	expanded := strings.ReplaceAll(line, "\t", strings.Repeat(" ", opts.TabWidth))

	code, comment := splitComment(expanded)
	code = strings.TrimSpace(code)

	if code == "" {
		if comment == "" {
			return ""
		}
		return comment
	}

	var b strings.Builder

	// A leading label keeps its own column; code after it moves on.
	if idx := labelEnd(code); idx > 0 {
		b.WriteString(strings.Repeat(" ", opts.LabelColumn))
		b.WriteString(code[:idx])
		code = strings.TrimSpace(code[idx:])
		if code != "" {
			b.WriteString("\n")
		}
	}

	if code != "" {
		fields := splitOperands(code)
		b.WriteString(strings.Repeat(" ", opts.InstructionColumn))
		b.WriteString(strings.Join(fields, " "))
	}

	if comment != "" {
		cur := lineWidth(b.String())
		if opts.AlignComments && cur < opts.CommentColumn {
			b.WriteString(strings.Repeat(" ", opts.CommentColumn-cur))
		} else {
			b.WriteString(" ")
		}
		b.WriteString(comment)
	}

	return b.String()
}

// splitComment splits a line at its '#', leaving the marker on the
// comment side.
func splitComment(line string) (code, comment string) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx], strings.TrimSpace(line[idx:])
	}
	return line, ""
}

// labelEnd returns the index just past a leading `name:` label, or 0.
func labelEnd(code string) int {
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == ':' {
			if i == 0 {
				return 0
			}
			return i + 1
		}
		if !isIdentChar(c) {
			return 0
		}
	}
	return 0
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// splitOperands breaks a statement into its mnemonic and operand
// fields, tolerating the comma separators other assemblers use so the
// formatter can rewrite them away.
func splitOperands(code string) []string {
	return strings.FieldsFunc(code, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
}

// lineWidth is the width of the last line in s.
func lineWidth(s string) int {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return len(s) - idx - 1
	}
	return len(s)
}
