// Command csv2sendy normalizes contact spreadsheets for Sendy imports.
package main

import "github.com/JonMunkholm/csv2sendy/internal/cli"

func main() {
	cli.Execute()
}
