package main

import (
	"github.com/ColonelBlimp/soundmix/cmd"
	"github.com/ColonelBlimp/soundmix/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
