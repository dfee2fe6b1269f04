package main

import "invoiceqc/cmd/qc/cmd"

func main() {
	cmd.Execute()
}
