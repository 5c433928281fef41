package main

import (
	"github.com/pixelvide/sygmail/pkg/root"
	"github.com/pixelvide/sygmail/pkg/telemetry"

	_ "github.com/pixelvide/sygmail/pkg/console" // Register commands
)

func main() {
	telemetry.SetGlobalLogger()
	root.Execute()
}
