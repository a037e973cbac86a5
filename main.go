package main

import "photosec-backend/cmd"

func main() {
	cmd.Run()
}
