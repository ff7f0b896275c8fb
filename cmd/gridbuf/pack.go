package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/gridbuf/codec"
	"github.com/hupe1980/gridbuf/components"
	"github.com/hupe1980/gridbuf/resource"
	"github.com/hupe1980/gridbuf/snapshot"
	"github.com/spf13/cobra"
)

func newPackCmd(a *app) *cobra.Command {
	var (
		compression string
		codecName   string
		ioLimit     int64
	)
	cmd := &cobra.Command{
		Use:   "pack <src> <dst>",
		Short: "Re-encode a snapshot with another compression or codec",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			defer func() { err = errors.Join(err, a.closeStores()) }()

			c, err := snapshot.ParseCompression(compression)
			if err != nil {
				return err
			}
			cd, ok := codec.ByName(codecName)
			if !ok {
				return fmt.Errorf("unknown codec %q", codecName)
			}
			rc, err := resource.NewController(resource.Config{IOLimitBytesPerSec: ioLimit})
			if err != nil {
				return err
			}

			src, srcName, err := a.resolveBlob(ctx, args[0])
			if err != nil {
				return err
			}
			dst, dstName, err := a.resolveBlob(ctx, args[1])
			if err != nil {
				return err
			}

			l, err := snapshot.Load(ctx, components.MustMetaData(), src, srcName,
				snapshot.WithLogger(a.logger), snapshot.WithController(rc))
			if err != nil {
				return err
			}
			defer l.Close()

			return snapshot.Save(ctx, dst, dstName, l.Dataset(),
				snapshot.WithCompression(c),
				snapshot.WithCodec(cd),
				snapshot.WithController(rc),
				snapshot.WithLogger(a.logger),
			)
		},
	}
	cmd.Flags().StringVar(&compression, "compression", "zstd", "body compression (none, lz4, zstd)")
	cmd.Flags().StringVar(&codecName, "codec", codec.Default.Name(), "manifest codec ("+strings.Join(codec.Names(), ", ")+")")
	cmd.Flags().Int64Var(&ioLimit, "io-limit", 0, "write throughput limit in bytes per second, 0 for unlimited")
	return cmd
}
