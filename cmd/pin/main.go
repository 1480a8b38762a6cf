package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	pinlang "github.com/yan5236/pinlanguage"
)

const (
	appName     = "pin"
	historyFile = ".pinlang_history"
	prompt      = ">>> "
)

var banner = fmt.Sprintf("PinLang %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type exit() to exit.", pinlang.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	args := os.Args[1:]

	// --debug / -d may appear anywhere.
	rest := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--debug" || a == "-d" {
			pinlang.Debug = true
			continue
		}
		rest = append(rest, a)
	}
	args = rest

	if len(args) == 0 {
		os.Exit(cmdRepl())
	}

	switch args[0] {
	case "run":
		os.Exit(cmdRun(args[1:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(pinlang.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		// Bare file argument is shorthand for "run".
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(os.Stderr, "%s: unknown flag %q\n", appName, args[0])
			usage()
			os.Exit(2)
		}
		os.Exit(cmdRun(args))
	}
}

func usage() {
	fmt.Printf(`PinLang %s

Usage:
  %s run <file.pin>     Run a script.
  %s <file.pin>         Same as run.
  %s repl               Start the REPL (default with no arguments).
  %s version            Print the version.

Flags:
  --debug, -d           Trace lexer, parser and interpreter stages on stderr.

`, pinlang.Version, appName, appName, appName, appName)
}

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.pin>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	if !pinlang.Run(string(src), filepath.Base(file)) {
		return 1
	}
	return 0
}

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if err != nil {
			continue // Ctrl+C cancels the current input
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		switch code {
		case "exit()":
			return 0
		case "debug on":
			pinlang.Debug = true
			fmt.Println("debug tracing on")
			continue
		case "debug off":
			pinlang.Debug = false
			fmt.Println("debug tracing off")
			continue
		}

		// Each line runs in a fresh environment; variables do not persist
		// across lines because jump targets are program-relative.
		if !pinlang.Run(code, "<repl>") {
			fmt.Fprintln(os.Stderr, red("run failed"))
		}
		ln.AppendHistory(line)
	}
}
