// Command typechat is a terminal chat client with a simulated typing
// assistant and a small conversation history server.
package main

import "github.com/diogo/typechat/internal/commands"

func main() {
	commands.Execute()
}
