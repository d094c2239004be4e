package main

import (
	"fmt"
	"io"

	"code.byted.org/khicago/dynamic"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type mergeOptions struct {
	adds              []string
	subs              []string
	strictSubtraction bool
	strictTyping      bool
	output            string
	dump              bool
}

func newMergeCmd(root *rootOptions) *cobra.Command {
	opts := mergeOptions{
		strictSubtraction: true,
		output:            "yaml",
	}
	cmd := &cobra.Command{
		Use:   "merge BASE",
		Short: "Apply unions (--add) then differences (--sub) to BASE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := configureLogger(root.logLevel, cmd.ErrOrStderr())
			return runMerge(cmd.OutOrStdout(), args[0], opts, dynamic.NewZerologLogger(logger))
		},
	}
	fs := cmd.Flags()
	fs.StringArrayVar(&opts.adds, "add", nil, "document to union into the result (repeatable, applied in order)")
	fs.StringArrayVar(&opts.subs, "sub", nil, "document to subtract from the result (repeatable, applied after --add)")
	fs.BoolVar(&opts.strictSubtraction, "strict-subtraction", true, "remove keys only when values match")
	fs.BoolVar(&opts.strictTyping, "strict-typing", false, "reject type changes of existing keys")
	fs.StringVarP(&opts.output, "output", "o", "yaml", "output format (yaml, json)")
	fs.BoolVar(&opts.dump, "dump", false, "print a debug dump instead of a document")
	return cmd
}

func runMerge(w io.Writer, base string, opts mergeOptions, logger dynamic.Logger) error {
	dopts := []dynamic.Option{
		dynamic.WithStrictSubtraction(opts.strictSubtraction),
		dynamic.WithStrictTyping(opts.strictTyping),
		dynamic.WithLogger(logger),
	}

	result, err := loadDocument(base, dopts...)
	if err != nil {
		return err
	}
	for _, path := range opts.adds {
		other, err := loadDocument(path, dopts...)
		if err != nil {
			return err
		}
		if err := result.Update(other); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
	}
	for _, path := range opts.subs {
		other, err := loadDocument(path, dopts...)
		if err != nil {
			return err
		}
		if err := result.Subtract(other); err != nil {
			return fmt.Errorf("sub %s: %w", path, err)
		}
	}

	if opts.dump {
		_, err := io.WriteString(w, result.Dump())
		return err
	}
	return writeDocument(w, result, opts.output)
}

func writeDocument(w io.Writer, d *dynamic.Dynamic, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}
