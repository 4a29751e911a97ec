package main

import "github.com/Tiliavir/daily-work-journal/cmd"

func main() {
	cmd.Execute()
}
