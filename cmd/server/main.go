package main

import "peopledesk/internal/app/server"

func main() {
	server.Run()
}
