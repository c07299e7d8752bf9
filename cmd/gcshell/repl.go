package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// runREPL drives an interactive gcshell session, reading one command line
// at a time with chzyer/readline (for history and basic line editing) and
// dispatching each through a fresh cobra command tree bound to sess.
func runREPL(sess *session) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "gcshell> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("gcshell: starting readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		args := strings.Fields(line)
		cmd := newShellCommands(sess)
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			fmt.Fprintf(rl.Stderr(), "error: %v\n", err)
		}
	}
}
