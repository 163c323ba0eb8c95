package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"pipestat/app/cli/cmd/client"
	"pipestat/pkg/api"
	"pipestat/pkg/objects"
	"pipestat/pkg/util/context"

	"github.com/spf13/cobra"
)

// errPrinted is returned once the error was already written as a JSON body
type errPrinted struct {
	error
}

// NewLsCommand returns a new instance of a pipestat command
func NewLsCommand() *cobra.Command {
	var remote string
	command := &cobra.Command{
		Use:   "ls s3://bucket/prefix",
		Short: "list the objects under a location, one JSON object per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()
			return ls(ctx, os.Stdout, args[0], remote)
		},
	}
	command.Flags().StringVar(&remote, "remote", "", "uri of a pipestat server to list through")
	return command
}

func ls(ctx context.Context, w io.Writer, path, remote string) error {
	res, err := list(ctx, path, remote)
	if err != nil {
		fmt.Fprintln(w, api.ErrorJSON(err.Error()))
		return errPrinted{err}
	}
	enc := json.NewEncoder(w)
	for _, o := range res {
		if err := enc.Encode(o); err != nil {
			return err
		}
	}
	return nil
}

func list(ctx context.Context, path, remote string) ([]api.ObjectInfo, error) {
	if remote != "" {
		cli, err := client.New(remote)
		if err != nil {
			return nil, err
		}
		return cli.Objects(ctx, path)
	}
	loc, err := objects.ParseLocation(path)
	if err != nil {
		return nil, err
	}
	conf, err := objects.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	l, err := objects.NewMinioLister(conf)
	if err != nil {
		return nil, err
	}
	return l.List(ctx, loc.Bucket, loc.Key)
}

// Printed returns true if err was already written to the standard output
func Printed(err error) bool {
	_, ok := err.(errPrinted)
	return ok
}
