// Package main provides the entry point for the rmaio CLI.
package main

func main() {
	Execute()
}
