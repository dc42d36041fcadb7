package main

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/utils/ptr"
)

type renderFlags struct {
	referenceSystem string
	threshold       float64
	subArea         string
	samples         bool
	files           []string
	show            [domain.NumLayers]bool
	linewidth       [domain.NumLayers]float64
}

func newRenderCmd(sf *styleFlags) *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "render PRODUCT... | all",
		Short: "Render one or more products once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := productIDs(args)
			if err != nil {
				return err
			}
			a, err := newApp(*sf)
			if err != nil {
				return err
			}
			defer a.close()

			base := rf.request(cmd.Flags(), a.cfg.ReferenceSystem)
			var failed int
			for _, id := range ids {
				req := base
				req.Product = id
				res, err := a.plotter.Render(cmd.Context(), req)
				if err != nil {
					printFailure(cmd.OutOrStdout(), id, err)
					failed++
					continue
				}
				printResult(cmd.OutOrStdout(), res)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d products failed", failed, len(ids))
			}
			return nil
		},
	}

	rf.bind(cmd.Flags())
	return cmd
}

func (rf *renderFlags) bind(f *pflag.FlagSet) {
	f.StringVarP(&rf.referenceSystem, "reference-system", "r", "", "Boundary reference system (default: REFERENCE_SYSTEM)")
	f.Float64VarP(&rf.threshold, "threshold", "t", 0, "Threshold for threshold products (default: product default)")
	f.StringVar(&rf.subArea, "sub-area", "", "Sub-area directory under the area")
	f.BoolVar(&rf.samples, "samples", false, "Annotate sampled grid values")
	f.StringSliceVarP(&rf.files, "file", "f", nil, "Local GRIB2 files to plot instead of downloading")
	for _, l := range domain.Layers() {
		f.BoolVar(&rf.show[l], "show-"+l.String(), false, "Draw the "+l.String()+" layer (Custom reference system)")
		f.Float64Var(&rf.linewidth[l], "linewidth-"+l.String(), 0, "Line width of the "+l.String()+" layer")
	}
}

// request turns the flags into a render request. Only flags that were set
// become overrides.
func (rf renderFlags) request(flags *pflag.FlagSet, defaultReference string) pipeline.Request {
	cfg := domain.BorderConfig{ReferenceSystem: rf.referenceSystem}
	if cfg.ReferenceSystem == "" {
		cfg.ReferenceSystem = defaultReference
	}
	for _, l := range domain.Layers() {
		if flags.Changed("show-" + l.String()) {
			cfg.Show[l] = ptr.To(rf.show[l])
		}
		if flags.Changed("linewidth-" + l.String()) {
			cfg.Linewidth[l] = ptr.To(rf.linewidth[l])
		}
	}

	req := pipeline.Request{
		Borders:     cfg,
		SubArea:     rf.subArea,
		ShowSamples: rf.samples,
		FilePaths:   rf.files,
	}
	if flags.Changed("threshold") {
		req.Threshold = ptr.To(rf.threshold)
	}
	return req
}

func productIDs(args []string) ([]string, error) {
	if len(args) == 1 && args[0] == "all" {
		var ids []string
		for _, p := range domain.Products() {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}
	var errs []error
	for _, id := range args {
		if _, ok := domain.LookupProduct(id); !ok {
			errs = append(errs, fmt.Errorf("%q: %w", id, pipeline.ErrUnknownProduct))
		}
	}
	return args, errors.Join(errs...)
}
