// Command fincoach is the personal finance advisory client.
package main

import "github.com/fincoach-dev/fincoach/internal/cli"

func main() {
	cli.Execute()
}
