package main

import "github.com/hvmanager/iconconv/cmd"

func main() {
	cmd.Execute()
}
