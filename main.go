package main

import "github.com/frahmantamala/rbac-management/cmd"

func main() {
	cmd.Execute()
}
