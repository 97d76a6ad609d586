package main

import "github.com/terraconstructs/logbook/cmd"

func main() {
	cmd.Execute()
}
