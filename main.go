/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/arcanum/cmd"

func main() {
	cmd.Execute()
}
