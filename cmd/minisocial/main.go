package main

import (
	"log"
	"os"

	"github.com/tech-arch1tect/minisocial/app"
)

func main() {
	application, err := app.NewApp().WithAutoConfig().Build()
	if err != nil {
		log.Fatal(err)
	}

	os.Exit(application.Run())
}
