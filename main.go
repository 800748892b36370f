package main

import "github.com/codefan-byte/caminos-tfg-sub000/cmd"

func main() {
	cmd.Execute()
}
