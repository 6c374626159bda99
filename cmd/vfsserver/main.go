package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Usage: "Serve a filesystem image over a socket",
		Commands: []*cli.Command{
			{
				Name:      "serve",
				Usage:     "Open an image and accept shell connections on an address",
				Action:    runServe,
				ArgsUsage: "IMAGE_PATH ADDRESS",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runServe(context *cli.Context) error {
	if context.Args().Len() != 2 {
		return fmt.Errorf("serve requires exactly two arguments: IMAGE_PATH ADDRESS")
	}

	img, err := fs.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer img.Close()

	ln, err := net.Listen("tcp", context.Args().Get(1))
	if err != nil {
		return err
	}
	defer ln.Close()

	fmt.Printf("listening on %s\n", ln.Addr())
	return server.Serve(ln, img)
}
