// Command fuzzyrank ranks a movie catalog against qualitative preferences from the terminal.
package main

func main() {
	Execute()
}
