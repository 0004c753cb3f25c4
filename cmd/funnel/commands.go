package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/funnelworks/funnel/form3/obj3/funnel"
	"github.com/funnelworks/funnel/helpers/matter"
	"github.com/funnelworks/funnel/internal/config"
	"github.com/funnelworks/funnel/internal/preview"
	"github.com/funnelworks/funnel/render"
	"github.com/funnelworks/funnel/sdf"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	out        string
	quality    string
	material   string
	png        string
	set        []string
	verbose    bool
}

// builder makes a model from the loaded configuration.
type builder func(cfg *config.Config) (sdf.SDF3, error)

func newRootCmd(log *logrus.Logger) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "funnel",
		Short:         "Generate parametric funnel models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(
		newGenerateCmd("profile", "Revolved thin wall funnel with a top lip", opts, log,
			func(cfg *config.Config) (sdf.SDF3, error) { return funnel.Profile(cfg.Profile.Parms()) }),
		newGenerateCmd("finned", "Solid cone and stem funnel with helical fins", opts, log,
			func(cfg *config.Config) (sdf.SDF3, error) { return funnel.Finned(cfg.Finned.Parms()) }),
		newInspectCmd(log),
		newInitCmd(log),
	)
	return root
}

func newGenerateCmd(name, short string, opts *options, log *logrus.Logger, build builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(log, name, opts, build)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&opts.configPath, "config", "c", "", "config file (default $"+config.EnvConfigPath+" or ./"+config.ConfigFileName+")")
	fl.StringVarP(&opts.out, "out", "o", "", "output STL path (default <output_dir>/"+name+".stl)")
	fl.StringVarP(&opts.quality, "quality", "q", config.QualityPreview, "mesh quality: preview or export")
	fl.StringVarP(&opts.material, "material", "m", "", "shrink compensation material: pla, petg or none")
	fl.StringVar(&opts.png, "png", "", "also render a PNG preview to this path")
	fl.StringArrayVar(&opts.set, "set", nil, "override a config value, e.g. --set finned.fin_count=8")
	return cmd
}

func generate(log *logrus.Logger, name string, opts *options, build builder) error {
	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if path == "" {
		log.Debug("no config file found, using defaults")
	} else {
		log.WithField("path", path).Debug("loaded config")
	}
	if err := cfg.SetAll(opts.set); err != nil {
		return err
	}
	if opts.material != "" {
		cfg.Material = opts.material
	}
	cells, err := cfg.MeshCells(opts.quality)
	if err != nil {
		return err
	}
	model, err := build(cfg)
	if err != nil {
		return err
	}
	mat, ok, err := matter.Lookup(cfg.Material)
	if err != nil {
		return err
	}
	if ok {
		model = mat.Scale(model)
	}
	out := opts.out
	if out == "" {
		out = filepath.Join(cfg.OutputDir, name+".stl")
	}

	start := time.Now()
	counter := &countingRenderer{r: render.NewOctreeRenderer(model, cells)}
	if err := render.CreateSTL(out, counter); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.WithFields(logrus.Fields{
		"model":     name,
		"quality":   opts.quality,
		"cells":     cells,
		"material":  cfg.Material,
		"triangles": counter.n,
		"out":       out,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Info("wrote model")

	if opts.png != "" {
		start = time.Now()
		if err := preview.STLToPNG(out, opts.png, preview.DefaultView()); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		log.WithFields(logrus.Fields{
			"png":     opts.png,
			"elapsed": time.Since(start).Round(time.Millisecond),
		}).Info("wrote preview")
	}
	return nil
}

func newInspectCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.stl",
		Short: "Print triangle count and bounds of a binary STL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(log, args[0])
		},
	}
}

func inspect(log *logrus.Logger, path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	if errors.Is(err, render.ErrNormalMismatch) {
		log.WithField("path", path).Warn(err)
	} else if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	bb := render.Bounds(model)
	size := bb.Max.Sub(bb.Min)
	log.WithFields(logrus.Fields{
		"path":      path,
		"triangles": len(model),
		"min":       fmt.Sprintf("(%.3g, %.3g, %.3g)", bb.Min.X, bb.Min.Y, bb.Min.Z),
		"max":       fmt.Sprintf("(%.3g, %.3g, %.3g)", bb.Max.X, bb.Max.Y, bb.Max.Z),
		"size":      fmt.Sprintf("%.3g x %.3g x %.3g", size.X, size.Y, size.Z),
	}).Info("inspected model")
	return nil
}

func newInitCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init [FILE]",
		Short: "Write the default configuration to FILE (default ./" + config.ConfigFileName + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			log.WithField("path", path).Info("wrote default config")
			return nil
		},
	}
}

// countingRenderer counts the triangles read through it.
type countingRenderer struct {
	r render.Renderer
	n int
}

func (c *countingRenderer) ReadTriangles(dst []render.Triangle3) (int, error) {
	n, err := c.r.ReadTriangles(dst)
	c.n += n
	return n, err
}
