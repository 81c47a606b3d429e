// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/alvazir/jobasha-sub000/cmd/jobasha"

func main() {
	cmd.Execute()
}
