package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"blockmesh/internal/config"
	"blockmesh/internal/gpu"
	"blockmesh/internal/preview"
	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/xlab/closer"
)

func init() {
	// GL calls must come from the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath  string
	palettePath string
	scenePath   string
	terrain     bool
	extent      int
	height      int
	lod         int
	collision   bool
	previewPath string
	pixels      int
	upload      bool
	metricsPath string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML config file (default $BLOCKMESH_CONFIG)")
	flag.StringVar(&o.palettePath, "palette", "", "YAML palette file (default built-in palette)")
	flag.StringVar(&o.scenePath, "scene", "", "YAML scene of block boxes to mesh")
	flag.BoolVar(&o.terrain, "terrain", false, "generate and mesh terrain tiles instead of a scene")
	flag.IntVar(&o.extent, "extent", 64, "terrain width and length in blocks")
	flag.IntVar(&o.height, "height", 32, "terrain height in blocks")
	flag.IntVar(&o.lod, "lod", -1, "scene level of detail (default from config)")
	flag.BoolVar(&o.collision, "collision", false, "also build collision meshes")
	flag.StringVar(&o.previewPath, "preview", "", "write a top-down PNG preview here")
	flag.IntVar(&o.pixels, "pixels", 4, "preview pixels per block")
	flag.BoolVar(&o.upload, "upload", false, "upload render meshes to a hidden OpenGL context")
	flag.StringVar(&o.metricsPath, "metrics", "", "write Prometheus metrics here on exit")
	flag.Parse()
	return o
}

func main() {
	o := parseFlags()
	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)
	defer closer.Close()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		closer.Fatalln(err)
	}
	cfg.Apply()
	if o.palettePath == "" && cfg != nil {
		o.palettePath = cfg.Palette
	}
	if o.metricsPath == "" && cfg != nil {
		o.metricsPath = cfg.Metrics.Dump
	}
	if o.lod >= 0 {
		config.SetLODLevel(o.lod)
	}

	reg := registry.Default()
	if o.palettePath != "" {
		if reg, err = registry.LoadPalette(o.palettePath); err != nil {
			closer.Fatalln(err)
		}
		log.Printf("blockmesh: loaded %d block types from %s", len(reg.IDs()), o.palettePath)
	}

	up := &uploader{factory: &gpu.MemoryBufferFactory{}, layout: gpu.LayoutFull}
	if o.upload {
		terminate, err := openGL()
		if err != nil {
			closer.Fatalln(err)
		}
		defer terminate()
		up.factory = &gpu.GLBufferFactory{}
	}
	// GL buffers must be released on this thread.
	defer up.release()

	var previewVolume *world.Volume
	switch {
	case o.terrain:
		extent := [3]int{o.extent, o.extent, o.height}
		log.Printf("blockmesh: terrain %v, seed %d, tiles %v, %d workers",
			extent, config.GetSeed(), config.GetTileSize(), config.GetMeshWorkers())
		store, render, coll, err := meshTerrain(ctx, reg, extent, o.collision, up)
		if err != nil {
			closer.Fatalln(err)
		}
		render.print(os.Stdout, "render")
		if o.collision {
			coll.print(os.Stdout, "collision")
		}
		if o.previewPath != "" {
			previewVolume = flatten(store, reg, extent)
		}

	case o.scenePath != "":
		v, err := loadScene(o.scenePath, reg)
		if err != nil {
			closer.Fatalln(err)
		}
		if lod := config.GetLODLevel(); lod > 0 {
			v = v.CreateMeshLOD(lod)
			log.Printf("blockmesh: lod %d, %v blocks", lod, v.Dims())
		}
		render, coll, err := meshVolume(v, o.collision, up)
		if err != nil {
			closer.Fatalln(err)
		}
		render.print(os.Stdout, "render")
		if o.collision {
			coll.print(os.Stdout, "collision")
		}
		previewVolume = v

	default:
		flag.Usage()
		closer.Exit(2)
	}

	if o.previewPath != "" && previewVolume != nil {
		img := preview.TopDown(previewVolume, reg, o.pixels)
		preview.Label(img, fmt.Sprintf("lod %d", config.GetLODLevel()))
		if err := preview.WritePNG(o.previewPath, img); err != nil {
			closer.Fatalln(err)
		}
		log.Printf("blockmesh: wrote preview %s", o.previewPath)
	}

	fmt.Println("timings:", profiling.TopN(5))
	if o.metricsPath != "" {
		if err := dumpMetrics(o.metricsPath); err != nil {
			closer.Fatalln(err)
		}
	}
}

// openGL makes the context of a hidden window current and returns the
// function tearing it down.
func openGL() (func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(64, 64, "blockmesh", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	log.Printf("blockmesh: uploading to %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	return func() {
		window.Destroy()
		glfw.Terminate()
	}, nil
}

func dumpMetrics(path string) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(f, mf); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return f.Close()
}
