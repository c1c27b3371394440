package main

import "github.com/d0wlet/sentinel/internal/cmd"

func main() {
	cmd.Execute()
}
