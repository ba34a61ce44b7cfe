package main

import "github.com/tanpawarit/chative-shop-assistant/cmd"

func main() {
	cmd.Execute()
}
