package main

import (
	"github.com/rostersync/rostersync/server/cmd/rostersync-tools/commands"
	_ "github.com/rostersync/rostersync/server/cmd/rostersync-tools/commands/dump"
	_ "github.com/rostersync/rostersync/server/cmd/rostersync-tools/commands/migrate"
)

func main() {
	commands.Execute()
}
