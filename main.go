package main

import "github.com/photon-wallet/photon/cmd"

func main() {
	cmd.Execute()
}
