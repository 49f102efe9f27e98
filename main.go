package main

import "github.com/jjenkins/fieldservice/cmd"

func main() {
	cmd.Execute()
}
