// Command aisync keeps AI coding assistant configuration in sync across
// Claude Code, Cursor, GitHub Copilot, Codex and OpenCode.
package main

import "github.com/roach88/aisync/internal/cli"

func main() {
	cli.Main()
}
