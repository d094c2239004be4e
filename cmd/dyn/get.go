package main

import (
	"fmt"
	"io"

	"code.byted.org/khicago/dynamic"
	"github.com/spf13/cobra"
)

func newGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value at a dotted attribute path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := configureLogger(root.logLevel, cmd.ErrOrStderr())
			return runGet(cmd.OutOrStdout(), args[0], args[1], dynamic.NewZerologLogger(logger))
		},
	}
}

func runGet(w io.Writer, file, path string, logger dynamic.Logger) error {
	d, err := loadDocument(file, dynamic.WithLogger(logger))
	if err != nil {
		return err
	}
	v, err := d.Attr(path)
	if err != nil {
		return err
	}
	if m, ok := v.(*dynamic.Dynamic); ok {
		return writeDocument(w, m, "yaml")
	}
	_, err = fmt.Fprintln(w, v.Interface())
	return err
}
