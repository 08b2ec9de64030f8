package main

import "github.com/oshokin/f1sh-bundler/cmd/f1sh-bundler/cmd"

func main() {
	cmd.Execute()
}
