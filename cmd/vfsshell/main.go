package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/bsurber/vfsimage/fs"
	"github.com/bsurber/vfsimage/shell"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.App{
		Usage: "Mount a filesystem image and drive it interactively",
		Commands: []*cli.Command{
			{
				Name:      "mount",
				Usage:     "Open an existing image and start an interactive session",
				Action:    runMount,
				ArgsUsage: "IMAGE_PATH",
			},
			{
				Name:      "format",
				Usage:     "Create a new, empty image",
				Action:    runFormat,
				ArgsUsage: "IMAGE_PATH",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

func runFormat(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("format requires exactly one argument: IMAGE_PATH")
	}
	img, err := fs.Create(context.Args().Get(0))
	if err != nil {
		return err
	}
	return img.Close()
}

func runMount(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("mount requires exactly one argument: IMAGE_PATH")
	}

	img, err := fs.Open(context.Args().Get(0))
	if err != nil {
		return err
	}
	defer img.Close()

	state := shell.NewState()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		path, err := img.GetFullPath(state.Cwd)
		if err != nil {
			path = "?"
		}
		fmt.Printf("%s> ", path)

		if !scanner.Scan() {
			return scanner.Err()
		}

		out, err := shell.Dispatch(img, state, scanner.Text())
		if err == shell.ErrUnmount {
			return nil
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			continue
		}
		fmt.Print(out)
	}
}
