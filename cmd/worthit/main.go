package main

import (
	"log"
	"os"

	"github.com/Tushar-Bhat65/WorthIt/cmd/worthit/commands"
)

func main() {
	commands.Execute()
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
