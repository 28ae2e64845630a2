package main

import "github.com/mepalumni/mepbudget/cmd"

func main() {
	cmd.Execute()
}
