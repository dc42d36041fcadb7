package main

import (
	"fmt"
	"io"

	"github.com/couchcryptid/hawaii-firewx/internal/domain"
	"github.com/couchcryptid/hawaii-firewx/internal/pipeline"
)

func printResult(w io.Writer, res pipeline.Result) {
	labelColor.Fprintf(w, "%s", res.Product.ID)
	fmt.Fprint(w, "  ")
	lengthColor := freshColor
	if res.Length == domain.Short {
		lengthColor = warningColor
	}
	lengthColor.Fprintf(w, "%d periods (%s)", len(res.Images), res.Length)
	fmt.Fprint(w, "  ")
	valueColor.Fprintf(w, "%s to %s", res.Event.FirstValid.Format("Mon 01/02 15:04 MST"), res.Event.LastValid.Format("Mon 01/02 15:04 MST"))
	fmt.Fprintln(w)

	if res.SamplesDisabled > 0 {
		warningColor.Fprintf(w, "  sample annotations disabled for %d period(s)\n", res.SamplesDisabled)
	}
	fmt.Fprint(w, "  ")
	pathColor.Fprintln(w, res.Animation)
}

func printFailure(w io.Writer, product string, err error) {
	labelColor.Fprintf(w, "%s", product)
	fmt.Fprint(w, "  ")
	errorColor.Fprintln(w, err)
}
