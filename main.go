package main

import (
	"log"

	"github.com/aitutorhq/ai-tutor-api/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
