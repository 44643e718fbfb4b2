// Copyright © 2025 The Weft authors

package main

import "github.com/weftlang/weft/cmd"

func main() {
	cmd.Execute()
}
