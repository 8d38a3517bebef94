package main

import "crdb-admin/cmd"

func main() {
	cmd.Execute()
}
