package nestopt

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/napalu/nestopt/i18n"
	"github.com/napalu/nestopt/internal/messages"
	"github.com/napalu/nestopt/util"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxHelpPosition = 24
	sectionIndent   = 2
	indentIncrement = 2
)

// PrintHelp writes the help message to w. In plus mode hidden arguments,
// sections and commands are included.
func (p *Parser) PrintHelp(w io.Writer, plus bool) {
	fmt.Fprint(w, p.FormatHelp(plus))
}

// PrintUsage writes the usage line to w
func (p *Parser) PrintUsage(w io.Writer) {
	fmt.Fprint(w, p.FormatUsage(false))
}

// FormatHelp renders usage, description, every visible section ordered by
// (Order, Title) and the epilog
func (p *Parser) FormatHelp(plus bool) string {
	var b strings.Builder
	r := NewRenderer(p)
	width := p.helpWidth()

	b.WriteString(p.FormatUsage(plus))
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.fill(p.Description, width))
	}

	type section struct {
		group   *Group
		entries []helpEntry
	}
	var sections []section
	longest := 0
	for _, g := range p.sortedGroups() {
		if g.Hidden && !plus {
			continue
		}
		entries := p.helpEntries(r, g, plus)
		if len(entries) == 0 && g.Description == "" {
			continue
		}
		for _, e := range entries {
			longest = max(longest, e.indent+runeLen(e.invocation))
		}
		sections = append(sections, section{g, entries})
	}

	position := min(longest+2, maxHelpPosition, max(width-20, 2*indentIncrement))
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(p.style(upperFirst(s.group.Title)))
		b.WriteString(":\n")
		if s.group.Description != "" {
			for _, line := range wrapText(s.group.Description, width, strings.Repeat(" ", sectionIndent)) {
				b.WriteString(line + "\n")
			}
			b.WriteString("\n")
		}
		for _, e := range s.entries {
			e.write(&b, position, width)
		}
	}

	if p.Epilog != "" {
		b.WriteString("\n")
		b.WriteString(p.fill(p.Epilog, width))
	}
	return b.String()
}

// FormatUsage renders the usage line, wrapped to the help width
func (p *Parser) FormatUsage(plus bool) string {
	prefix := p.style(cases.Title(language.English).String(i18n.Default().T(messages.MsgUsageKey))) + ": "
	plainPrefix := i18n.Default().T(messages.MsgUsageKey) + ": "

	if p.Usage != "" {
		return prefix + strings.ReplaceAll(p.Usage, "%(prog)s", p.Prog) + "\n"
	}

	parts := p.usageParts(plus)
	line := strings.Join(append([]string{p.Prog}, parts...), " ")
	width := p.helpWidth()
	if runeLen(plainPrefix)+runeLen(line) <= width || len(parts) == 0 {
		return prefix + line + "\n"
	}

	indent := strings.Repeat(" ", runeLen(plainPrefix)+runeLen(p.Prog)+1)
	var lines []string
	cur := p.Prog
	curLen := runeLen(plainPrefix) + runeLen(cur)
	for i, part := range parts {
		if i > 0 && curLen+1+runeLen(part) > width {
			lines = append(lines, cur)
			cur = indent + part
			curLen = runeLen(cur)
			continue
		}
		cur += " " + part
		curLen += 1 + runeLen(part)
	}
	lines = append(lines, cur)
	return prefix + strings.Join(lines, "\n") + "\n"
}

func (p *Parser) usageParts(plus bool) []string {
	r := NewRenderer(p)
	var optionals, positionals []string
	done := map[*Group]bool{}
	for _, a := range p.actions {
		if !p.visible(a, plus) {
			continue
		}
		if a.isPositional() {
			positionals = append(positionals, r.ArgumentUsage(a, false))
			continue
		}
		if len(a.mutex) == 0 {
			optionals = append(optionals, r.ArgumentUsage(a, false))
			continue
		}

		g := a.mutex[0]
		if done[g] {
			continue
		}
		done[g] = true
		var members []string
		for _, m := range g.members {
			if p.visible(m, plus) {
				members = append(members, r.ArgumentUsage(m, true))
			}
		}
		open, closing := "[", "]"
		if g.Required {
			open, closing = "(", ")"
		}
		optionals = append(optionals, open+strings.Join(members, " | ")+closing)
	}
	return append(optionals, positionals...)
}

type helpEntry struct {
	indent     int
	invocation string
	help       string
}

func (p *Parser) helpEntries(r *DefaultRenderer, g *Group, plus bool) []helpEntry {
	var entries []helpEntry
	for _, a := range g.members {
		if !p.visible(a, plus) {
			continue
		}
		if a.Action == ActionParsers {
			for _, cmd := range p.subparsers.Commands() {
				if cmd.Hidden && !plus {
					continue
				}
				entries = append(entries, helpEntry{
					indent:     sectionIndent + indentIncrement,
					invocation: r.CommandInvocation(cmd),
					help:       cmd.Help,
				})
			}
			continue
		}
		entries = append(entries, helpEntry{
			indent:     sectionIndent,
			invocation: r.Invocation(a),
			help:       r.ArgumentHelp(a),
		})
	}
	return entries
}

func (e helpEntry) write(b *strings.Builder, position, width int) {
	lead := strings.Repeat(" ", e.indent)
	if e.help == "" {
		b.WriteString(lead + e.invocation + "\n")
		return
	}

	lines := wrapText(e.help, max(width-position, 11), "")
	actionWidth := position - e.indent - 2
	if runeLen(e.invocation) <= actionWidth {
		pad := strings.Repeat(" ", actionWidth-runeLen(e.invocation)+2)
		b.WriteString(lead + e.invocation + pad + lines[0] + "\n")
		lines = lines[1:]
	} else {
		b.WriteString(lead + e.invocation + "\n")
	}
	helpLead := strings.Repeat(" ", position)
	for _, line := range lines {
		b.WriteString(helpLead + line + "\n")
	}
}

// visible reports whether a shows in help; hidden arguments, and members
// of hidden sections, only show in plus mode
func (p *Parser) visible(a *Argument, plus bool) bool {
	if plus {
		return true
	}
	return !a.Hidden && (a.group == nil || !a.group.Hidden)
}

func (p *Parser) sortedGroups() []*Group {
	groups := append([]*Group(nil), p.groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Order != groups[j].Order {
			return groups[i].Order < groups[j].Order
		}
		return groups[i].Title < groups[j].Title
	})
	return groups
}

func (p *Parser) helpWidth() int {
	if p.width > 0 {
		return p.width
	}
	return util.TerminalWidth(p.stdout, util.DefaultTerminal) - 2
}

func (p *Parser) fill(text string, width int) string {
	text = strings.ReplaceAll(text, "%(prog)s", p.Prog)
	return strings.Join(wrapText(text, width, ""), "\n") + "\n"
}

func (p *Parser) style(s string) string {
	c := color.New(color.Bold, color.Underline)
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// wrapText wraps every line of text to width, keeping the line's leading
// whitespace on continuation lines. Lines that start with "- " continue
// under the bullet text.
func wrapText(text string, width int, indent string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		rest := strings.TrimLeft(line, " \t")
		if rest == "" {
			out = append(out, "")
			continue
		}
		lead := line[:len(line)-len(rest)]
		hang := indent + lead
		if strings.HasPrefix(rest, "- ") {
			hang += "  "
		}

		cur := indent + lead
		curLen := runeLen(cur)
		started := false
		for _, word := range strings.Fields(rest) {
			if started && curLen+1+runeLen(word) > width {
				out = append(out, cur)
				cur, curLen = hang+word, runeLen(hang)+runeLen(word)
				continue
			}
			if started {
				cur += " "
				curLen++
			}
			cur += word
			curLen += runeLen(word)
			started = true
		}
		out = append(out, cur)
	}
	return out
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
