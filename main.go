package main

import "github.com/user/codechat/cmd"

func main() {
	cmd.Execute()
}
