package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/framehaus/joist"
	"github.com/spf13/cobra"
)

var (
	exportOutput      string
	exportPixelsPerMm float64
	exportMarginPx    float64
)

var exportCmd = &cobra.Command{
	Use:   "export [project]",
	Short: "Export a project's floor plan as a PNG image",
	Long: `Render the plan's wall polygons and fixture footprints to a PNG file.
The image is scaled by --pixels-per-mm and padded by --margin pixels on
every side.`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "plan.png", "output PNG path")
	exportCmd.Flags().Float64Var(&exportPixelsPerMm, "pixels-per-mm", 0.1, "rendering scale in pixels per millimeter")
	exportCmd.Flags().Float64Var(&exportMarginPx, "margin", 20, "padding around the plan in pixels")
}

func runExport(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st := openStore(ctx)
	defer st.Close()

	p, err := st.FindProject(ctx, args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding project: %v\n", err)
		os.Exit(1)
	}
	sc, err := st.LoadScene(ctx, p.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading plan: %v\n", err)
		os.Exit(1)
	}

	if err := renderPNG(sc, exportOutput, exportPixelsPerMm, exportMarginPx); err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting plan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %q to %s\n", p.Name, exportOutput)
}

// renderPNG rasterizes the plan at the given scale. Walls are drawn as
// filled outline polygons, fixtures as stroked footprints with a dot at
// the anchor position.
func renderPNG(sc *joist.Scene, path string, pixelsPerMm, marginPx float64) error {
	if pixelsPerMm <= 0 {
		return fmt.Errorf("pixels-per-mm must be positive, got %g", pixelsPerMm)
	}
	bounds, ok := sc.Bounds()
	if !ok {
		return fmt.Errorf("nothing to export")
	}

	imageWidth := int(math.Ceil(bounds.Width*pixelsPerMm + 2*marginPx))
	imageHeight := int(math.Ceil(bounds.Height*pixelsPerMm + 2*marginPx))

	// Pin the plan's top-left corner at (margin, margin).
	vp := joist.NewViewport()
	vp.PixelsPerMm = pixelsPerMm
	vp.Center = joist.Vec2{X: marginPx, Y: marginPx}.Sub(joist.Vec2{X: bounds.X, Y: bounds.Y}.Mul(pixelsPerMm))

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	for _, id := range sc.WallIDs() {
		w, _ := sc.Wall(id)
		poly := joist.WallPolygon(sc, w)
		if poly == nil {
			continue
		}
		tracePolygon(dc, vp, poly)
		dc.SetColor(color.Gray{Y: 0xd4})
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}

	for _, id := range sc.FixtureIDs() {
		f, _ := sc.Fixture(id)
		footprint := joist.FixtureFootprint(sc, f)
		if footprint == nil {
			continue
		}
		dc.SetColor(color.RGBA{R: 0x4a, G: 0x6f, B: 0xa5, A: 0xff})
		tracePolygon(dc, vp, footprint)
		dc.SetLineWidth(1.5)
		dc.Stroke()
		pos := vp.WorldToScreen(f.Pos)
		dc.DrawCircle(pos.X, pos.Y, 2)
		dc.Fill()
	}

	return dc.SavePNG(path)
}

// tracePolygon appends the polygon's outline to the current path in
// screen space.
func tracePolygon(dc *gg.Context, vp *joist.Viewport, poly []joist.Vec2) {
	pt := vp.WorldToScreen(poly[0])
	dc.MoveTo(pt.X, pt.Y)
	for _, v := range poly[1:] {
		pt = vp.WorldToScreen(v)
		dc.LineTo(pt.X, pt.Y)
	}
	dc.ClosePath()
}
