// Command client issues single chat operations against a running server,
// e.g.
//
//	client -a localhost:50051 login alice
//	client send alice "hello there"
//
// register and login prompt for the password without echo when it is not
// given on the command line.
//	client messages 0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatroom/internal/chatpb"
	"github.com/dmitrijs2005/chatroom/internal/client"
	"github.com/dmitrijs2005/chatroom/internal/common"
	"golang.org/x/term"
)

// readPassword is swapped out in tests to keep the terminal out of them.
var readPassword = term.ReadPassword

var errUsage = errors.New("usage: client [-a addr] [-t timeout] register|login|logout|send|messages|online|count|ping args...")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	addr := fs.String("a", "localhost:50051", "gRPC server address")
	timeout := fs.Duration("t", 5*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := fs.Args()
	if len(cmd) == 0 {
		return errUsage
	}

	name, rest := cmd[0], cmd[1:]
	var err error
	switch name {
	case "register":
		rest, err = registerArgs(rest, out)
	case "login":
		rest, err = loginArgs(rest, out)
	}
	if err != nil {
		return err
	}

	c, err := client.NewChatClient(*addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	return dispatch(ctx, c, name, rest, out)
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// registerArgs expands "username [password [confirm [email]]]" into all four
// values, prompting for password and confirmation when they are omitted.
func registerArgs(args []string, out io.Writer) ([]string, error) {
	if len(args) < 1 || len(args) > 4 {
		return nil, errUsage
	}
	full := make([]string, 4)
	copy(full, args)

	if len(args) == 1 {
		pw, err := promptPassword(out, "Password: ")
		if err != nil {
			return nil, err
		}
		confirm, err := promptPassword(out, "Confirm password: ")
		if err != nil {
			return nil, err
		}
		full[1], full[2] = pw, confirm
	} else if len(args) == 2 {
		full[2] = full[1]
	}
	return full, nil
}

// loginArgs expands "username [password]", prompting for the password when
// it is omitted.
func loginArgs(args []string, out io.Writer) ([]string, error) {
	switch len(args) {
	case 1:
		pw, err := promptPassword(out, "Password: ")
		if err != nil {
			return nil, err
		}
		return []string{args[0], pw}, nil
	case 2:
		return args, nil
	default:
		return nil, errUsage
	}
}

func dispatch(ctx context.Context, c *client.GRPCClient, name string, args []string, out io.Writer) error {
	switch name {
	case "register":
		if len(args) != 4 {
			return errUsage
		}
		r, err := c.Register(ctx, args[0], args[1], args[2], args[3])
		if err != nil {
			return err
		}
		printResult(out, r)

	case "login":
		if len(args) != 2 {
			return errUsage
		}
		r, err := c.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		printResult(out, r)

	case "logout":
		if len(args) != 1 {
			return errUsage
		}
		r, err := c.Logout(ctx, args[0])
		if err != nil {
			return err
		}
		printResult(out, r)

	case "send":
		if len(args) < 2 {
			return errUsage
		}
		r, err := c.SendMessage(ctx, args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if !r.Success {
			fmt.Fprintln(out, r.Message)
			return nil
		}
		fmt.Fprintf(out, "#%d %s\n", r.ID, r.Timestamp.Format(time.TimeOnly))

	case "messages":
		var lastID int64
		if len(args) > 0 {
			lastID, _ = strconv.ParseInt(args[0], 10, 64)
		}
		msgs, err := c.GetMessages(ctx, lastID)
		if err != nil {
			return err
		}
		printMessages(out, msgs)

	case "online":
		users, err := c.GetOnlineUsers(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(users, "\n"))

	case "count":
		n, err := c.GetTotalMessages(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)

	case "ping":
		s, err := c.Ping(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)

	default:
		return errUsage
	}
	return nil
}

func printResult(out io.Writer, r *client.Result) {
	if r.SessionToken != "" {
		fmt.Fprintf(out, "%s (token %s)\n", r.Message, r.SessionToken)
		return
	}
	fmt.Fprintln(out, r.Message)
}

func printMessages(out io.Writer, msgs []chatpb.ChatMessage) {
	for _, m := range msgs {
		fmt.Fprintf(out, "[%d] %s %s: %s\n", m.ID, m.Timestamp.Local().Format(time.TimeOnly), m.Username, m.Message)
	}
}
