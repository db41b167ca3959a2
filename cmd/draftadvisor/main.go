// Command draftadvisor recommends hero and skill picks from recorded battles.
package main

import "github.com/ramonehamilton/draft-advisor/internal/cli"

func main() {
	cli.Execute()
}
