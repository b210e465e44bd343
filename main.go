package main

import "freelance-booking/cmd"

func main() {
	cmd.Execute()
}
