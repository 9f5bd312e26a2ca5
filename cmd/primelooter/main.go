package main

import (
	"primelooter/cmd/primelooter/commands"
	"primelooter/lib/osutil"
)

func main() {
	ctx := osutil.SignalContext()
	commands.ExecuteContext(ctx)
}
