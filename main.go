package main

import "github.com/vibast-solutions/ms-go-boleto/cmd"

func main() {
	cmd.Execute()
}
