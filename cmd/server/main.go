package main

import "geniehr/internal/app/server"

func main() {
	server.Run()
}
