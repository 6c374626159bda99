package shell

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bsurber/vfsimage/errs"
	"github.com/bsurber/vfsimage/fs"
)

// ErrUnmount is returned by Dispatch for the "unmount" command, the
// caller's signal to close the image and end the session.
var ErrUnmount = fmt.Errorf("session ended by unmount")

// Dispatch parses one command line and runs it against img, mutating
// state.Cwd as needed, and returns the command's text output.
func Dispatch(img *fs.Image, state *State, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "pwd":
		return cmdPwd(img, state, args)
	case "ls":
		return cmdLs(img, state, args)
	case "cd":
		return cmdCd(img, state, args)
	case "mkdir":
		return cmdMkdir(img, state, args)
	case "rmdir":
		return cmdRmdir(img, state, args)
	case "touch":
		return cmdTouch(img, state, args)
	case "rm":
		return cmdRm(img, state, args)
	case "cat":
		return cmdCat(img, state, args)
	case "upload":
		return cmdUpload(img, state, args)
	case "download":
		return cmdDownload(img, state, args)
	case "help":
		return cmdHelp(args)
	case "unmount":
		return "", ErrUnmount
	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdPwd(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 0 {
		return "", fmt.Errorf("pwd takes no arguments")
	}
	return img.GetFullPath(state.Cwd)
}

func cmdLs(img *fs.Image, state *State, args []string) (string, error) {
	target := state.Cwd
	if len(args) == 1 {
		p, err := img.ResolvePath(state.Cwd, args[0])
		if err != nil {
			return "", err
		}
		target = p
	} else if len(args) > 1 {
		return "", fmt.Errorf("ls takes at most one argument")
	}

	entries, err := img.ListDir(target)
	if err != nil {
		return "", err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var sb strings.Builder
	for _, e := range entries {
		inode, err := img.Stat(e.Inode)
		if err != nil {
			return "", err
		}
		name := e.Name
		if inode.IsDirectory() {
			name += "/"
		}
		sb.WriteString(name)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func cmdCd(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("cd requires exactly one path argument")
	}
	target, err := img.ResolvePath(state.Cwd, args[0])
	if err != nil {
		return "", err
	}
	state.Cwd = target
	return "", nil
}

func cmdMkdir(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("mkdir requires exactly one name argument")
	}
	_, err := img.CreateFileInDir(state.Cwd, fs.TypeDirectory, args[0])
	return "", err
}

func cmdRmdir(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("rmdir requires exactly one name argument")
	}
	target, err := img.ResolvePath(state.Cwd, args[0])
	if err != nil {
		return "", err
	}
	inode, err := img.Stat(target)
	if err != nil {
		return "", err
	}
	if !inode.IsDirectory() {
		return "", errs.ErrWrongType.WithMessage(args[0])
	}
	entries, err := img.ListDir(target)
	if err != nil {
		return "", err
	}
	if len(entries) > 2 {
		return "", fmt.Errorf("rmdir: %q is not empty", args[0])
	}
	return "", img.RemoveFileFromDir(state.Cwd, target)
}

func cmdTouch(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("touch requires exactly one name argument")
	}
	_, err := img.CreateFileInDir(state.Cwd, fs.TypeRegular, args[0])
	return "", err
}

func cmdRm(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("rm requires exactly one name argument")
	}
	target, err := img.ResolvePath(state.Cwd, args[0])
	if err != nil {
		return "", err
	}
	inode, err := img.Stat(target)
	if err != nil {
		return "", err
	}
	if !inode.IsRegular() {
		return "", errs.ErrWrongType.WithMessage(args[0])
	}
	return "", img.RemoveFileFromDir(state.Cwd, target)
}

func cmdCat(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("cat requires exactly one name argument")
	}
	target, err := img.ResolvePath(state.Cwd, args[0])
	if err != nil {
		return "", err
	}
	data, err := img.DownloadFile(target)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func cmdUpload(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("upload requires a local path and a name")
	}
	localPath, name := args[0], args[1]

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", errs.ErrHostIO.Wrap(err)
	}

	target, err := img.ResolvePath(state.Cwd, name)
	if err != nil {
		target, err = img.CreateFileInDir(state.Cwd, fs.TypeRegular, name)
		if err != nil {
			return "", err
		}
	}
	return "", img.UploadFile(target, data)
}

func cmdDownload(img *fs.Image, state *State, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("download requires a name and a local path")
	}
	name, localPath := args[0], args[1]

	target, err := img.ResolvePath(state.Cwd, name)
	if err != nil {
		return "", err
	}
	data, err := img.DownloadFile(target)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", errs.ErrHostIO.Wrap(err)
	}
	return "", nil
}

func cmdHelp(args []string) (string, error) {
	if len(args) == 0 {
		return HelpSummary(), nil
	}
	if len(args) != 1 {
		return "", fmt.Errorf("help takes at most one command name")
	}
	text, ok := Help(args[0])
	if !ok {
		return "", fmt.Errorf("no help available for %q", args[0])
	}
	return text + "\n", nil
}
