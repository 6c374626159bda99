package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bsurber/vfsimage/client"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Usage: "Send one shell command to a vfsserver and print its reply",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Connect to ADDRESS and run a single command",
				Action:    runCommand,
				ArgsUsage: "ADDRESS COMMAND...",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runCommand(context *cli.Context) error {
	if context.Args().Len() < 2 {
		return fmt.Errorf("run requires an address and at least one command word")
	}

	addr := context.Args().Get(0)
	line := strings.Join(context.Args().Slice()[1:], " ")

	text, cmdErr, err := client.RunCommand(addr, line)
	if err != nil {
		return err
	}
	if cmdErr != nil {
		return cmdErr
	}
	fmt.Print(text)
	return nil
}
