package main

import (
	"os"

	"newsbrief/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
