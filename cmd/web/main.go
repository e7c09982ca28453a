package main

import "castboard_backend/internal/app"

func main() {
	app.Run()
}
