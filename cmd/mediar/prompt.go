package main

import (
	"errors"
	"strings"
)

var errNotInteractive = errors.New("stdin is not a terminal; pass --yes to proceed without confirmation")

// readLine returns the next trimmed input line. EOF yields an empty answer.
func (a *app) readLine() string {
	input, _ := a.in.ReadString('\n')
	return strings.TrimSpace(input)
}

// confirm asks a yes/no question. Anything but y/yes is no.
func (a *app) confirm(question string) bool {
	printf(a.out, "%s [y/N]: ", question)
	switch strings.ToLower(a.readLine()) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
