// Copyright 2025 The Scry Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scry is an interactive query shell over the inference engine. It
// loads the builtin host modules and answers registry queries:
//
//	modules            list top-level modules
//	members sys        list the members of a module
//	search path        find modules and members by name
//	resolve sys.path   resolve a dotted name to its values
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"scry.dev/scry/analysis"
	"scry.dev/scry/builtins"
	"scry.dev/scry/ns"
)

func exitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "scry: "+format+"\n", args...)
	os.Exit(1)
}

const usageLine = "scry [-e cmd] [-limit n]"

func main() {
	flagE := flag.String("e", "", "query passed as a string")
	flagLimit := flag.Int("limit", 32, "value set size cap")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s\n", usageLine)
		os.Exit(1)
	}
	flag.Parse()

	sess := analysis.NewSession(builtins.New(), &analysis.Options{
		Limits:  ns.Limits{MaxSet: *flagLimit},
		Relaxed: true,
	})
	if err := builtins.InstallDefaults(sess); err != nil {
		exitf("%v", err)
	}

	if *flagE != "" {
		if err := run(sess, *flagE); err != nil {
			exitf("%v", err)
		}
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetCtrlCAborts(true)
	line.SetWordCompleter(func(text string, pos int) (string, []string, string) {
		head, word := splitWord(text[:pos])
		return head, sess.Complete(word), text[pos:]
	})

	histFile := ""
	if home := os.Getenv("HOME"); home != "" {
		histFile = filepath.Join(home, ".scry_history")
		if f, err := os.Open(histFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	for {
		data, err := line.Prompt("scry> ")
		if err == liner.ErrPromptAborted {
			continue
		} else if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "scry: %v\n", err)
			}
			break
		}
		if strings.TrimSpace(data) == "" {
			continue
		}
		line.AppendHistory(data)
		if data == "exit" || data == "quit" {
			break
		}
		if err := run(sess, data); err != nil {
			fmt.Printf("%v\n", err)
		}
	}

	if histFile != "" {
		if f, err := os.Create(histFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	fmt.Fprintf(os.Stderr, "\n")
}

func run(sess *analysis.Session, input string) error {
	input = strings.TrimSpace(input)
	cmd, arg := input, ""
	if i := strings.IndexAny(input, " \t"); i >= 0 {
		cmd, arg = input[:i], strings.TrimSpace(input[i+1:])
	}
	switch cmd {
	case "modules":
		for _, name := range sess.Modules(arg != "-all") {
			fmt.Println(name)
		}
		return nil
	case "members":
		if arg == "" {
			return fmt.Errorf("usage: members <module> [-r]")
		}
		name := arg
		recursive := false
		if rest := strings.TrimSuffix(arg, " -r"); rest != arg {
			name, recursive = strings.TrimSpace(rest), true
		}
		members, ok := sess.ModuleMembers(name, recursive)
		if !ok {
			return fmt.Errorf("no module %q", name)
		}
		printMembers(members, "")
		return nil
	case "search":
		if arg == "" {
			return fmt.Errorf("usage: search <name>")
		}
		for _, r := range sess.FindAllModules(arg) {
			state := "resolved"
			if !r.Resolved {
				state = "speculative"
			}
			fmt.Printf("%s\t%s\n", r.Name, state)
		}
		return nil
	case "resolve":
		if arg == "" {
			return fmt.Errorf("usage: resolve <dotted-name>")
		}
		set := sess.ResolveImport(arg, true)
		if set.Empty() {
			fmt.Println("<none>")
			return nil
		}
		fmt.Println(set.String())
		return nil
	case "analyze":
		return sess.Analyze(context.Background())
	case "reload":
		sess.Reload()
		return nil
	case "help":
		fmt.Println("commands: modules [-all], members <module> [-r], search <name>, resolve <dotted-name>, analyze, reload, exit")
		return nil
	}
	return fmt.Errorf("unknown command %q (try help)", cmd)
}

func printMembers(members []analysis.Member, indent string) {
	for _, m := range members {
		fmt.Printf("%s%s\t%s\n", indent, m.Name, m.Values.String())
		printMembers(m.Children, indent+"  ")
	}
}

// splitWord splits text at the last whitespace run, so the completer
// sees the final word.
func splitWord(text string) (head, word string) {
	i := strings.LastIndexAny(text, " \t")
	if i < 0 {
		return "", text
	}
	return text[:i+1], text[i+1:]
}
