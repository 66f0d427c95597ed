package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"subfix/internal/segment"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// colorRule tints a rule name by how aggressive the correction is.
func colorRule(rule segment.Rule, colorize bool) string {
	name := string(rule)
	if !colorize {
		return name
	}
	switch rule {
	case segment.RuleInterlude:
		return ansiYellow + name + ansiReset
	case segment.RuleLargeCorrection:
		return ansiRed + name + ansiReset
	case segment.RuleWeighted:
		return ansiGreen + name + ansiReset
	default:
		return name
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
