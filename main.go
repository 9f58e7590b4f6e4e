// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/invowk/suitepub/cmd/suitepub"

func main() {
	cmd.Execute()
}
