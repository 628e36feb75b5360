// Vahti - EC2 fleet operations toolkit
package main

func main() {
	Execute()
}
