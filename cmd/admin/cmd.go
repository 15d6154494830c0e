package main

import (
	"context"
	"coursell/backend/internal/service"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

const seedUsername = "admin"

type commandLine struct {
	adminSvc service.AdminService
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  create -username USERNAME          - create an admin account")
	fmt.Fprintln(cli.out, "  reset-password -username USERNAME  - reset an admin's password")
	fmt.Fprintln(cli.out, "  seed                               - create the \"admin\" account if it is missing")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "create":
		username, err := cli.usernameFlag("create", args[2:])
		if err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		admin, err := cli.adminSvc.Signup(ctx, username, pwd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "admin %q created (id %s)\n", admin.Username, admin.ID.Hex())
		return nil

	case "reset-password":
		username, err := cli.usernameFlag("reset-password", args[2:])
		if err != nil {
			return err
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if err := cli.adminSvc.ResetPassword(ctx, username, pwd); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password of %q updated\n", username)
		return nil

	case "seed":
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		created, err := cli.adminSvc.EnsureAdmin(ctx, seedUsername, pwd)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cli.out, "admin %q created\n", seedUsername)
		} else {
			fmt.Fprintf(cli.out, "admin %q already exists\n", seedUsername)
		}
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) usernameFlag(name string, args []string) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	username := fs.String("username", "", "The admin's username. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *username == "" {
		fs.Usage()
		return "", errHelp
	}
	return *username, nil
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	return string(pwd), nil
}
