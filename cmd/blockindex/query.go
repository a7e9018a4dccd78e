package main

import (
	"errors"
	"fmt"

	"github.com/bsm/blockindex"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <index> <key>",
	Short: "look up a single key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openIndex(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		val, err := r.Get([]byte(args[1]))
		if errors.Is(err, blockindex.ErrNotFound) {
			return fmt.Errorf("key %q not found", args[1])
		} else if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan <index> [prefix]",
	Short: "print all entries starting with a prefix",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openIndex(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		var prefix []byte
		if len(args) > 1 {
			prefix = []byte(args[1])
		}

		iter, err := r.PrefixScan(prefix)
		if err != nil {
			return err
		}
		defer iter.Release()

		out := cmd.OutOrStdout()
		for n := 0; (limit < 1 || n < limit) && iter.Next(); n++ {
			fmt.Fprintf(out, "%s\t%d\n", iter.Key(), iter.Value())
		}
		return iter.Err()
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <index>",
	Short: "print header information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openIndex(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		height, err := r.Height()
		if err != nil {
			return err
		}

		hdr := r.Header()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "block size:   %d\n", hdr.BlockSize)
		fmt.Fprintf(out, "index blocks: %d\n", hdr.IndexBlockCount)
		fmt.Fprintf(out, "data blocks:  %d\n", r.NumBlocks()-int(hdr.IndexBlockCount))
		fmt.Fprintf(out, "height:       %d\n", height)
		return nil
	},
}
