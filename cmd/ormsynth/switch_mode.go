package main

import (
	"fmt"
	"os"
	"strings"
)

// switchMode is the value of an auto|on|off flag such as --ui or --color.
type switchMode string

const (
	switchAuto switchMode = "auto"
	switchOn   switchMode = "on"
	switchOff  switchMode = "off"
)

func parseSwitch(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on":
		return switchOn, nil
	case "off":
		return switchOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// enabled resolves auto against whether f is a terminal.
func (m switchMode) enabled(f *os.File) bool {
	switch m {
	case switchOn:
		return true
	case switchOff:
		return false
	default:
		return isTerminal(f)
	}
}
