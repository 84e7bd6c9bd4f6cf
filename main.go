package main

import (
	"os"

	"github.com/mediatekformation/mediatekformation/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
