package main

import "activity-registration/cmd"

func main() {
	cmd.Execute()
}
