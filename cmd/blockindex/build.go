package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bsm/blockindex"
	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"
)

var buildCmd = &cobra.Command{
	Use:   "build <input.tsv> <output>",
	Short: "build an index from sorted key<TAB>uint64 lines",
	Args:  cobra.ExactArgs(2),
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	input, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer input.Close()

	stat, err := input.Stat()
	if err != nil {
		return err
	}

	output, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer output.Close()

	bar := pb.New64(stat.Size())
	bar.ShowTimeLeft = true
	bar.ShowPercent = true
	bar.ShowSpeed = true
	bar.Units = pb.U_BYTES
	bar.Output = cmd.ErrOrStderr()

	o := &blockindex.WriterOptions{
		BlockSize: blockSize,
		Sentinel:  sentinel,
		TempDir:   tempDir,
	}
	if snappySpool {
		o.SpoolCompression = blockindex.SnappyCompression
	}

	bufw := bufio.NewWriterSize(output, 1<<20)
	w := blockindex.NewWriter[uint64](bufw, blockindex.Uint64Codec{}, o)

	bar.Start()
	err = copyTSV(w, bar.NewProxyReader(bufio.NewReaderSize(input, 1<<20)))
	bar.Finish()
	if err != nil {
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}
	if err := bufw.Flush(); err != nil {
		return err
	}
	return output.Close()
}

func copyTSV(w *blockindex.Writer[uint64], r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		key, val, err := parseLine(scanner.Bytes())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := w.Append(key, val); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func parseLine(line []byte) ([]byte, uint64, error) {
	pos := bytes.LastIndexByte(line, '\t')
	if pos < 0 {
		return nil, 0, fmt.Errorf("missing tab separator")
	}

	val, err := strconv.ParseUint(string(line[pos+1:]), 10, 64)
	if err != nil {
		return nil, 0, err
	}
	return line[:pos], val, nil
}
