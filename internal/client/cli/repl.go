package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests provide a lightweight stub.
type execIface interface {
	selectFile(path string) error
	submit(ctx context.Context)
	printHistory()
	showReport(index int)
	printStatus()
	refreshHistory(ctx context.Context)
}

// runREPL reads a line per iteration, parses the first token as the command,
// and dispatches to methods on a. The loop exits on scanner EOF or when the
// user types "exit" or "quit". Command handlers report their own errors; the
// loop stays focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	printlnFn("Code Review Assistant — type 'help' for commands.")
	for {
		printlnFn("review> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			printlnFn("Available commands: select <path>, submit, status, history, show <n>, refresh, exit")
		case "select":
			if len(parts) < 2 {
				printlnFn("usage: select <path>")
				continue
			}
			if err := a.selectFile(parts[1]); err != nil {
				printlnFn(fmt.Sprintf("select failed: %v", err))
			}
		case "submit":
			a.submit(ctx)
		case "status":
			a.printStatus()
		case "history":
			a.printHistory()
		case "show":
			if len(parts) < 2 {
				printlnFn("usage: show <n>")
				continue
			}
			index, err := strconv.Atoi(parts[1])
			if err != nil {
				printlnFn("usage: show <n>")
				continue
			}
			a.showReport(index)
		case "refresh":
			a.refreshHistory(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn(fmt.Sprintf("unknown command: %s", parts[0]))
		}
	}
}
