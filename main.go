// SPDX-License-Identifier: MPL-2.0

package main

import cmd "boxprep-cli/cmd/boxprep"

func main() {
	cmd.Execute()
}
