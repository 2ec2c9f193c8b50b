package main

import "github.com/camp-build/camp/cmd/camp/internal"

func main() {
	internal.Execute()
}
