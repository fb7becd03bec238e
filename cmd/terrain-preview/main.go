// Command terrain-preview writes the noise and colour maps of one chunk as
// PNG files and prints mesh statistics for every LOD.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"endless-terrain/internal/config"
	"endless-terrain/internal/heightfield"
	"endless-terrain/internal/meshing"
	"endless-terrain/internal/texture"
)

func main() {
	var (
		configPath = flag.String("config", "", "terrain yaml (default: built-in settings)")
		chunkX     = flag.Int("x", 0, "chunk x coordinate")
		chunkY     = flag.Int("y", 0, "chunk y coordinate")
		mode       = flag.String("mode", "all", "noise, colour, mesh or all")
		outDir     = flag.String("out", ".", "output directory for png files")
		scale      = flag.Int("scale", 2, "integer upscale factor for the png files")
		legend     = flag.Bool("legend", true, "draw the region legend on the colour map")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[preview] ", log.LstdFlags)

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			logger.Fatalf("load config: %v", err)
		}
		settings = s
	}

	gen := heightfield.NewGenerator(settings.GeneratorOptions())
	coord := heightfield.ChunkCoord{X: *chunkX, Y: *chunkY}
	hf, err := gen.Generate(coord)
	if err != nil {
		logger.Fatalf("generate %v: %v", coord, err)
	}

	m := strings.ToLower(*mode)
	all := m == "all"
	if all || m == "noise" {
		img, err := texture.FromHeightMap(hf.Heights, hf.Width, hf.Height)
		if err != nil {
			logger.Fatalf("noise map: %v", err)
		}
		path := filepath.Join(*outDir, fmt.Sprintf("noise_%d_%d.png", coord.X, coord.Y))
		if err := writePNG(path, texture.Upscale(img, *scale)); err != nil {
			logger.Fatalf("write %s: %v", path, err)
		}
		logger.Printf("wrote %s", path)
	}
	if all || m == "colour" || m == "color" {
		img, err := texture.FromColourMap(hf.Colours, hf.Width, hf.Height)
		if err != nil {
			logger.Fatalf("colour map: %v", err)
		}
		out := texture.Upscale(img, *scale)
		if *legend {
			texture.DrawLegend(out, gen.Regions())
		}
		path := filepath.Join(*outDir, fmt.Sprintf("colour_%d_%d.png", coord.X, coord.Y))
		if err := writePNG(path, out); err != nil {
			logger.Fatalf("write %s: %v", path, err)
		}
		logger.Printf("wrote %s", path)
	}
	if all || m == "mesh" {
		printMeshStats(hf)
	}
}

func printMeshStats(hf *heightfield.Heightfield) {
	fmt.Printf("chunk %d,%d  %dx%d samples\n", hf.Coord.X, hf.Coord.Y, hf.Width, hf.Height)
	fmt.Printf("%4s %7s %9s %10s\n", "lod", "stride", "vertices", "triangles")
	for lod := 0; lod <= meshing.MaxLOD; lod++ {
		m, err := meshing.Build(hf, lod)
		if err != nil {
			fmt.Printf("%4d %v\n", lod, err)
			continue
		}
		fmt.Printf("%4d %7d %9d %10d\n", lod, m.Stride, len(m.Vertices), m.TriangleCount())
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
