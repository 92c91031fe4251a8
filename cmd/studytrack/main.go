package main

import "github.com/nhle/studytrack/cmd/studytrack/root"

func main() {
	root.Execute()
}
