package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/codec"
)

// save: encrypt a JSON document under a logical key.
func (c *CLI) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <key> [json]",
		Short: "Encrypt and store a JSON document (read from stdin when omitted)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 2 {
				raw = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("%w: read stdin: %w", app.ErrInvalidInput, err)
				}
				raw = string(data)
			}

			doc, err := codec.Parse(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %w", app.ErrInvalidInput, err)
			}
			if err = c.app.persistence.Save(cmd.Context(), args[0], doc); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", args[0])
			return nil
		},
	}
}

// load: decrypt a logical key and print it as indented JSON.
func (c *CLI) loadCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "load <key>",
		Short: "Decrypt and print a stored JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc any
			found, err := c.app.persistence.Load(cmd.Context(), args[0], &doc)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", app.ErrNotFound, args[0])
			}

			// dates are printed in their tagged form so that the output can
			// be fed back to save unchanged
			compact, err := codec.Marshal(doc)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err = json.Indent(&out, []byte(compact), "", "  "); err != nil {
				return err
			}

			if copyToClipboard {
				if err = c.copyText(out.String()); err != nil {
					return fmt.Errorf("%w: %w", app.ErrClipboard, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "copied %s to clipboard\n", args[0])
				return nil
			}

			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the document to the clipboard instead of printing it")
	return cmd
}

// inspect: report how a logical key is stored without decrypting it.
func (c *CLI) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <key>",
		Short: "Show whether a stored document is encrypted or legacy plaintext",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, found, err := c.app.persistence.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: %s", app.ErrNotFound, args[0])
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], format)
			return nil
		},
	}
}

func (c *CLI) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"remove"},
		Short:   "Remove a stored document",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.persistence.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}
}

// clear: delete every document together with the encryption key.
func (c *CLI) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored document and the encryption key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return app.ErrConfirmationRequired
			}
			if err := c.app.persistence.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all data cleared")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion of all data")
	return cmd
}
