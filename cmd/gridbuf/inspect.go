package main

import (
	"errors"

	"github.com/hupe1980/gridbuf/components"
	"github.com/hupe1980/gridbuf/snapshot"
	"github.com/spf13/cobra"
)

type componentInfoView struct {
	Name                string   `yaml:"name"`
	ElementsPerScenario int64    `yaml:"elements_per_scenario"`
	TotalElements       int64    `yaml:"total_elements"`
	Ragged              bool     `yaml:"ragged,omitempty"`
	Columnar            bool     `yaml:"columnar,omitempty"`
	Attributes          []string `yaml:"attributes,omitempty"`
}

type snapshotView struct {
	ID          string              `yaml:"id"`
	Dataset     string              `yaml:"dataset"`
	IsBatch     bool                `yaml:"is_batch"`
	BatchSize   int64               `yaml:"batch_size"`
	Codec       string              `yaml:"codec"`
	Compression string              `yaml:"compression"`
	BodyBytes   uint64              `yaml:"body_bytes"`
	RawBytes    uint64              `yaml:"raw_bytes"`
	ZeroCopy    bool                `yaml:"zero_copy"`
	Components  []componentInfoView `yaml:"components"`
}

func viewSnapshot(l *snapshot.Loaded) (snapshotView, error) {
	ds := l.Dataset()
	desc := ds.Description()
	v := snapshotView{
		ID:          l.Manifest.ID,
		Dataset:     desc.Dataset.Name,
		IsBatch:     desc.IsBatch,
		BatchSize:   desc.BatchSize,
		Codec:       l.Codec,
		Compression: l.Header.Compression.String(),
		BodyBytes:   l.Header.BodyLen,
		RawBytes:    l.Header.BodyRawLen,
		ZeroCopy:    l.ZeroCopy,
	}
	for _, info := range desc.ComponentInfo {
		buf, err := ds.Buffer(info.Component.Name)
		if err != nil {
			return snapshotView{}, err
		}
		cv := componentInfoView{
			Name:                info.Component.Name,
			ElementsPerScenario: info.ElementsPerScenario,
			TotalElements:       info.TotalElements,
			Ragged:              info.IsRagged(),
			Columnar:            buf.IsColumnar(),
		}
		for _, a := range buf.Attributes {
			cv.Attributes = append(cv.Attributes, a.Attribute.Name)
		}
		v.Components = append(v.Components, cv)
	}
	return v, nil
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Print the header and description of a snapshot as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			defer func() { err = errors.Join(err, a.closeStores()) }()

			store, name, err := a.resolveBlob(ctx, args[0])
			if err != nil {
				return err
			}
			l, err := snapshot.Load(ctx, components.MustMetaData(), store, name, snapshot.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer l.Close()

			v, err := viewSnapshot(l)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), v)
		},
	}
}
