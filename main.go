package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// dbg is the debug logger. It stays discarded unless QSIMLAB_DEBUG names
// a file; a TUI owns stdout, so logging must go elsewhere.
var dbg = log.New(io.Discard)

func main() {
	numQubits := flag.Int("qubits", 3, "register size (1-5)")
	flag.Parse()

	if path := os.Getenv("QSIMLAB_DEBUG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		dbg = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.DebugLevel})
	}

	m, err := initialModel(*numQubits)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	dbg.Info("starting session", "qubits", *numQubits)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
