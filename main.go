package main

import (
	"github.com/mindis/avrobridge/internal/cmd"
)

func main() {
	cmd.Execute()
}
