// Command dpmcli runs the dynamic-programming matching engine over two
// rectified images and writes a visualization of the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	_ "golang.org/x/image/bmp"

	"github.com/gogpu/dpm"
)

func main() {
	var (
		mode         = flag.String("mode", "stereo", "matching mode: stereo or fusion")
		inputPath    = flag.String("input", "", "input image path (BMP or PNG)")
		referPath    = flag.String("reference", "", "reference image path (BMP or PNG)")
		outputPath   = flag.String("output", "out.png", "output PNG path")
		threads      = flag.Int("threads", 4, "worker pool size")
		skip         = flag.Int("skip", 8, "coarse pass scanline stride")
		weight       = flag.Float64("weight", 1.0, "stereo diagonal-bias weight")
		rowRange     = flag.Int("rowrange", 5, "stereo vertical edge-aggregation window")
		threshold    = flag.Int("threshold", 20, "stereo Sobel edge threshold")
		maxDisparity = flag.Int("maxdisparity", 32, "stereo search band width")
		sigmaC       = flag.Float64("sigmac", 0.1, "fusion gradient-disagreement sigma")
		sigmaG       = flag.Float64("sigmag", 0.1, "fusion glue-term sigma")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		dpm.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *inputPath == "" || *referPath == "" {
		log.Fatal("dpmcli: -input and -reference are required")
	}

	input, err := loadRaster(*inputPath)
	if err != nil {
		log.Fatalf("dpmcli: loading input: %v", err)
	}
	refer, err := loadRaster(*referPath)
	if err != nil {
		log.Fatalf("dpmcli: loading reference: %v", err)
	}

	matcher, err := dpm.NewMatcher(input, refer, *threads)
	if err != nil {
		log.Fatalf("dpmcli: %v", err)
	}
	defer matcher.Close()

	ctx := context.Background()

	switch *mode {
	case "stereo":
		if err := matcher.Stereo(ctx, *skip, *weight, *rowRange, *threshold, *maxDisparity); err != nil {
			log.Fatalf("dpmcli: stereo matching: %v", err)
		}
		if err := writeDisparity(*outputPath, matcher, input, *maxDisparity); err != nil {
			log.Fatalf("dpmcli: writing output: %v", err)
		}
	case "fusion":
		if err := matcher.Fusion(ctx, *skip, *sigmaC, *sigmaG); err != nil {
			log.Fatalf("dpmcli: fusion matching: %v", err)
		}
		if err := writeFusion(*outputPath, matcher, input, refer); err != nil {
			log.Fatalf("dpmcli: writing output: %v", err)
		}
	default:
		log.Fatalf("dpmcli: unknown mode %q, want stereo or fusion", *mode)
	}

	log.Printf("dpmcli: wrote %s (mode=%s)", *outputPath, *mode)
}

// loadRaster decodes a BMP or PNG file (format sniffed by image.Decode via
// the blank-imported codecs) into a dpm.Raster.
func loadRaster(path string) (*dpm.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return dpm.NewRasterFromImage(img), nil
}

// writeDisparity renders each column's |x - MatchPattern[c][x]| scaled
// into [0, 255] against maxDisparity, producing a grayscale depth map.
func writeDisparity(path string, matcher *dpm.Matcher, input *dpm.Raster, maxDisparity int) error {
	w, h := input.Width(), input.Height()
	out := dpm.NewRaster(w, h)

	for c := 0; c < h; c++ {
		pattern := matcher.MatchPattern(c)
		for x := 0; x < w; x++ {
			y := pattern[x]
			if y == dpm.Unmatched {
				out.SetPixelAt(x, c, 0, 0, 0)
				continue
			}
			d := x - y
			if d < 0 {
				d = -d
			}
			v := byte(0)
			if maxDisparity > 0 {
				scaled := d * 255 / maxDisparity
				if scaled > 255 {
					scaled = 255
				}
				v = byte(scaled)
			}
			out.SetPixelAt(x, c, v, v, v)
		}
	}

	return savePNG(path, out)
}

// writeFusion warps refer onto input's geometry using the computed
// MatchPattern: output[x, c] = refer[MatchPattern[c][x], c].
func writeFusion(path string, matcher *dpm.Matcher, input, refer *dpm.Raster) error {
	w, h := input.Width(), input.Height()
	out := dpm.NewRaster(w, h)

	for c := 0; c < h; c++ {
		pattern := matcher.MatchPattern(c)
		for x := 0; x < w; x++ {
			y := pattern[x]
			if y == dpm.Unmatched {
				out.SetPixelAt(x, c, 0, 0, 0)
				continue
			}
			r, g, b := refer.PixelAt(y, c)
			out.SetPixelAt(x, c, r, g, b)
		}
	}

	return savePNG(path, out)
}

func savePNG(path string, raster *dpm.Raster) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, raster)
}
