package main

import (
	"context"
	"flag"
	"os"

	"codereviewgo/internal/client/cli"
)

func main() {
	server := flag.String("server", defaultServer(), "review service base URL")
	flag.Parse()

	app := cli.NewApp(*server)
	app.Run(context.Background())
}

func defaultServer() string {
	if addr := os.Getenv("CODEREVIEWGO_SERVER"); addr != "" {
		return addr
	}
	return "http://localhost:8090"
}
