package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tailored-agentic-units/bidon/messaging"
	"github.com/tailored-agentic-units/bidon/transport/rpc"
)

const usage = `Usage: bidonctl [flags] <command> [args]

Commands:
  create <namespace>
  get    <namespace> <key>
  put    <namespace> <key> <value>   (value "-" reads stdin)
  delete <namespace> <key>
  save   <namespace>
  load   <namespace>

Flags:
`

func main() {
	var (
		server  = flag.String("server", "http://127.0.0.1:3000", "Base URL of the bidon server")
		timeout = flag.Duration("timeout", 10*time.Second, "Per-call timeout")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := rpc.NewClient(http.DefaultClient, *server)
	if err := run(ctx, client, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "bidonctl: %v\n", err)
		os.Exit(exitCode(err))
	}
}

var errUsage = errors.New("invalid arguments")

func run(ctx context.Context, client *rpc.Client, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd, args := args[0], args[1:]

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s takes %d argument(s)", errUsage, cmd, n)
		}
		return nil
	}

	switch cmd {
	case "create":
		if err := need(1); err != nil {
			return err
		}
		return client.CreateNamespace(ctx, args[0])

	case "get":
		if err := need(2); err != nil {
			return err
		}
		value, err := client.Get(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		_, err = stdout.Write(value)
		return err

	case "put":
		if err := need(3); err != nil {
			return err
		}
		value := []byte(args[2])
		if args[2] == "-" {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			value = data
		}
		previous, err := client.Put(ctx, args[0], args[1], value)
		if err != nil {
			return err
		}
		_, err = stdout.Write(previous)
		return err

	case "delete":
		if err := need(2); err != nil {
			return err
		}
		removed, err := client.Delete(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		_, err = stdout.Write(removed)
		return err

	case "save":
		if err := need(1); err != nil {
			return err
		}
		return client.SaveNamespace(ctx, args[0])

	case "load":
		if err := need(1); err != nil {
			return err
		}
		return client.LoadNamespace(ctx, args[0])

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, messaging.ErrNotFound):
		return 3
	case errors.Is(err, messaging.ErrConflict):
		return 4
	default:
		return 1
	}
}
