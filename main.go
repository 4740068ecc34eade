package main

import "github.com/chocoblitz/storefront/cmd"

func main() {
	cmd.Start()
}
