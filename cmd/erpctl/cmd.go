package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/supernitin06/erp-tenants-sub000/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	store *session.Store
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL - log in; the password will be prompted")
	fmt.Println("  whoami             - show the current session")
	fmt.Println("  logout             - clear the stored session")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The tenant's login email. The password will be prompted next.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginEmail, string(pwd))
	case "whoami":
		return cli.whoami()
	case "logout":
		cli.store.Logout()
		fmt.Println("logged out")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(email, pwd string) error {
	sess, err := cli.store.Login(context.Background(), session.Credentials{Email: email, Password: pwd})
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", sess.TenantSlug)
	return nil
}

func (cli *commandLine) whoami() error {
	sess := cli.store.Current()
	if sess == nil {
		fmt.Println("not logged in")
		return nil
	}
	plan := "none"
	if sess.PlanID != nil {
		plan = *sess.PlanID
	}
	fmt.Printf("tenant: %s\nplan:   %s\nactive: %t\n", sess.TenantSlug, plan, sess.Active())
	return nil
}
