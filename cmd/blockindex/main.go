package main

import (
	"log"
	"os"

	"github.com/bsm/blockindex"
	"github.com/spf13/cobra"
)

var (
	blockSize   int
	sentinel    uint8
	tempDir     string
	snappySpool bool
	limit       int
)

var rootCmd = &cobra.Command{
	Use:   "blockindex [command] (flags)",
	Short: "build and query block index files",
}

func init() {
	rootCmd.AddCommand(buildCmd, getCmd, scanCmd, statCmd)
	rootCmd.PersistentFlags().Uint8Var(
		&sentinel, "sentinel", 0, "the key terminator and padding byte")

	buildCmd.Flags().IntVarP(
		&blockSize, "block-size", "b", 64*1024, "the block size in bytes")
	buildCmd.Flags().StringVar(
		&tempDir, "temp-dir", "", "directory for spill files")
	buildCmd.Flags().BoolVar(
		&snappySpool, "snappy-spool", false, "compress spill files with snappy")
	scanCmd.Flags().IntVarP(
		&limit, "limit", "n", 0, "maximum number of entries to print (0, unlimited)")
}

func main() {
	log.SetFlags(0)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openIndex(name string) (*blockindex.Reader[uint64], error) {
	return blockindex.Open[uint64](name, blockindex.Uint64Codec{}, &blockindex.ReaderOptions{
		Sentinel: sentinel,
	})
}
