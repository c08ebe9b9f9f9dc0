package main

import (
	"log"

	"github.com/lemmego/observer/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
