package main

import (
	"github.com/hupe1980/gridbuf/components"
	"github.com/hupe1980/gridbuf/meta"
	"github.com/spf13/cobra"
)

type attributeView struct {
	Name   string  `yaml:"name"`
	CType  string  `yaml:"ctype"`
	Offset uintptr `yaml:"offset"`
	Size   uintptr `yaml:"size"`
}

type componentView struct {
	Name       string          `yaml:"name"`
	Size       uintptr         `yaml:"size"`
	Alignment  uintptr         `yaml:"alignment"`
	Attributes []attributeView `yaml:"attributes"`
}

type datasetView struct {
	Name       string          `yaml:"name"`
	Components []componentView `yaml:"components"`
}

func viewDataset(d *meta.Dataset) datasetView {
	out := datasetView{Name: d.Name}
	for _, c := range d.Components {
		cv := componentView{Name: c.Name, Size: c.Size, Alignment: c.Alignment}
		for _, a := range c.Attributes {
			cv.Attributes = append(cv.Attributes, attributeView{
				Name:   a.Name,
				CType:  a.CType.String(),
				Offset: a.Offset,
				Size:   a.Size,
			})
		}
		out.Components = append(out.Components, cv)
	}
	return out
}

func newSchemaCmd(*app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [dataset]",
		Short: "Print the built-in component registry as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := components.NewMetaData()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				d, err := md.Dataset(args[0])
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), viewDataset(d))
			}
			views := make([]datasetView, len(md.Datasets))
			for i := range md.Datasets {
				views[i] = viewDataset(&md.Datasets[i])
			}
			return writeYAML(cmd.OutOrStdout(), views)
		},
	}
}
