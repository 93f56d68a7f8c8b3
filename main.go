// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/scriptport/scriptport/cmd/scriptport"

func main() {
	cmd.Execute()
}
