package main

import "github.com/onehostcloud/cloud-init/internal/cli"

func main() {
	cli.Execute()
}
