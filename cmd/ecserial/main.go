/*
Copyright © 2025 EmbedCreativity
*/
package main

import "github.com/embedcreativity/go-ecserial/cmd"

func main() {
	cmd.Execute()
}
