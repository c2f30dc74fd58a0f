package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"bigcalc/internal/batch"
)

// uiMode is the --ui / run.ui setting for the progress view of `bigcalc run`.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

var uiModeNames = []string{uiModeAuto: "auto", uiModeOn: "on", uiModeOff: "off"}

func (m uiMode) String() string { return uiModeNames[m] }

func readUIMode(value string) (uiMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return uiModeAuto, nil
	}
	if i := slices.Index(uiModeNames, v); i >= 0 {
		return uiMode(i), nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides on the progress view for inputs. Reading records
// from stdin rules it out: the view owns the terminal. In auto mode it is
// shown for several files when stdout is a terminal.
func shouldUseTUI(mode uiMode, inputs []string) bool {
	if slices.Contains(inputs, batch.StdinName) {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return len(inputs) > 1 && isTerminal(os.Stdout)
	}
}
