package main

import "lyrics-visualizer/cmd"

func main() {
	cmd.Execute()
}
