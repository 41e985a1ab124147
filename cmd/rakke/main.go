// Command rakke is the CLI entrypoint; all command logic lives in package
// cli.
package main

import "github.com/yellow-footed-honeyguide/rakke/cli"

func main() {
	cli.Execute()
}
