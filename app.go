package main

import "github.com/masmgr/filedate-go/cmd"

func main() {
	cmd.Run()
}
