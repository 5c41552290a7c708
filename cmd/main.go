package main

import (
	"log"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/config"
	setupHTTP "github.com/Badsnus/campus-hub/internal/adapters/controller/http/setup"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	s, err := server.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	setupHTTP.Setup(s)

	s.Start()
}
