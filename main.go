package main

import (
	"log"

	"github.com/lessonbird/timetable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
