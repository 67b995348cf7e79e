// Command pcsma runs slotted p-persistent CSMA simulations.
package main

import "github.com/sarchlab/pcsma/pcsma/cmd"

func main() {
	cmd.Execute()
}
