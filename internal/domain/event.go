package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"time"
)

// Overlay is one border layer's geometry as polylines of lon/lat points.
type Overlay struct {
	Layer Layer
	Lines [][]Point
}

// Frame is everything the renderer needs to draw one period of a product.
type Frame struct {
	Product  Product
	AreaName string
	Index    int
	Start    time.Time
	End      time.Time
	Grid     *Grid
	Unit     Unit
	Levels   Levels
	Plan     BorderStylePlan
	Overlays []Overlay
	// Samples is nil when annotation is disabled for this frame.
	Samples []Sample
}

// PeriodImage is a drawn frame and the period number it is titled with.
type PeriodImage struct {
	Index int
	Image image.Image
}

// OutputKey locates a product's graphics on disk.
type OutputKey struct {
	Area            string
	SubArea         string
	Product         string
	ReferenceSystem string
}

// ProductRendered is published after a product's images and animation are written.
type ProductRendered struct {
	ID              string    `json:"id"`
	Product         string    `json:"product"`
	Element         Element   `json:"element"`
	Area            string    `json:"area"`
	SubArea         string    `json:"sub_area,omitempty"`
	ReferenceSystem string    `json:"reference_system"`
	ForecastLength  int       `json:"forecast_length"`
	FirstValid      time.Time `json:"first_valid"`
	LastValid       time.Time `json:"last_valid"`
	Images          []string  `json:"images"`
	Animation       string    `json:"animation"`
	SamplesDisabled int       `json:"samples_disabled"`
	RenderedAt      time.Time `json:"rendered_at"`
}

// RenderedID derives a deterministic event ID from the product, location and
// first valid time, so re-rendering the same issuance yields the same ID.
func RenderedID(key OutputKey, firstValid time.Time) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s", key.Area, key.SubArea, key.Product, key.ReferenceSystem, firstValid.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:8])
}
