package main

import (
	"os"

	"github.com/labstack/gommon/log"
	"github.com/radhian/booking-reconciliation/config"
	"github.com/radhian/booking-reconciliation/controllers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[HTTPServer] %v", err)
	}

	app := controllers.App{}
	if err := app.Initialize(cfg, os.Stdout); err != nil {
		log.Fatalf("[HTTPServer] %v", err)
	}
	defer app.Close()

	if err := app.RunServer(); err != nil {
		log.Errorf("[HTTPServer] %v", err)
	}
}
