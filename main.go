package main

import "github.com/theirongolddev/gaji/cmd"

func main() {
	cmd.Execute()
}
