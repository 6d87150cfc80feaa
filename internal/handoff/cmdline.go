package handoff

import "strings"

const specialChars = " \"\n\t\v"

// NeedsQuoting reports whether arg must be wrapped in double quotes to
// survive argv splitting.
func NeedsQuoting(arg string) bool {
	return strings.ContainsAny(arg, specialChars)
}

// EscapeArg returns arg unchanged when it has no whitespace or quotes, and
// the quoted form otherwise.
func EscapeArg(arg string) string {
	if !NeedsQuoting(arg) {
		return arg
	}
	return QuoteArg(arg)
}

// QuoteArg always wraps arg in double quotes. Backslashes are doubled where
// they precede a quote or the closing quote; embedded quotes are escaped.
func QuoteArg(arg string) string {
	var b strings.Builder
	b.Grow(len(arg) + 2)
	b.WriteByte('"')
	for i := 0; i < len(arg); i++ {
		slashes := 0
		for i < len(arg) && arg[i] == '\\' {
			i++
			slashes++
		}
		switch {
		case i == len(arg):
			b.WriteString(strings.Repeat(`\`, slashes*2))
		case arg[i] == '"':
			b.WriteString(strings.Repeat(`\`, slashes*2+1))
			b.WriteByte('"')
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
			b.WriteByte(arg[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

// BuildCommandLine joins args with single spaces, quoting where needed.
// Empty arguments are dropped.
func BuildCommandLine(args ...string) string {
	var b strings.Builder
	for _, a := range args {
		if a == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(EscapeArg(a))
	}
	return b.String()
}

// Builder assembles a command line piece by piece.
type Builder struct {
	b strings.Builder
}

func (l *Builder) sep() {
	if l.b.Len() > 0 {
		l.b.WriteByte(' ')
	}
}

// Path appends p, always quoted. Use it for file system paths, which may
// gain blanks depending on where they were created.
func (l *Builder) Path(p string) *Builder {
	l.sep()
	l.b.WriteString(QuoteArg(p))
	return l
}

// Arg appends a, quoted only when needed. Empty arguments are dropped.
func (l *Builder) Arg(a string) *Builder {
	if a == "" {
		return l
	}
	l.sep()
	l.b.WriteString(EscapeArg(a))
	return l
}

// Args appends each of args as by Arg.
func (l *Builder) Args(args ...string) *Builder {
	for _, a := range args {
		l.Arg(a)
	}
	return l
}

// Raw appends an already-formed argument tail verbatim.
func (l *Builder) Raw(tail string) *Builder {
	tail = strings.TrimLeft(tail, " \t")
	if tail == "" {
		return l
	}
	l.sep()
	l.b.WriteString(tail)
	return l
}

func (l *Builder) String() string {
	return l.b.String()
}

// SplitCommandLine splits s into arguments the way CommandLineToArgvW does
// for every argument after the program name.
func SplitCommandLine(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			slashes := 0
			for i < len(s) && s[i] == '\\' {
				slashes++
				i++
			}
			inArg = true
			if i < len(s) && s[i] == '"' {
				cur.WriteString(strings.Repeat(`\`, slashes/2))
				if slashes%2 == 1 {
					cur.WriteByte('"')
					continue
				}
				inQuote = !inQuote
				continue
			}
			cur.WriteString(strings.Repeat(`\`, slashes))
			i--
		case c == '"':
			inArg = true
			inQuote = !inQuote
		case (c == ' ' || c == '\t') && !inQuote:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			inArg = true
			cur.WriteByte(c)
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}

// TrimProgramName drops the program name from a raw command line and
// returns the remaining arguments untouched. The program name ends at the
// closing quote when it starts with one, otherwise at the first blank.
func TrimProgramName(cmdline string) string {
	rest := cmdline
	if strings.HasPrefix(rest, `"`) {
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return ""
		}
		rest = rest[end+2:]
	} else if end := strings.IndexAny(rest, " \t"); end >= 0 {
		rest = rest[end:]
	} else {
		return ""
	}
	return strings.TrimLeft(rest, " \t")
}
