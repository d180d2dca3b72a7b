//go:build tinygo

package main

import (
	"ausar/app"
	"ausar/hal"
)

func main() {
	app.Run(hal.New(), app.Config{MediaPath: "/movie.gba"})
}
