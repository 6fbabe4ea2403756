// Package tasks holds the task classes shipped with pipebase.
package tasks

import (
	"context"
	"fmt"

	"github.com/compozy/pipebase/engine/connection"
	"github.com/compozy/pipebase/engine/field"
	"github.com/compozy/pipebase/engine/pipeconfig"
	"github.com/compozy/pipebase/engine/pipeline"
	"github.com/compozy/pipebase/pkg/logger"
)

const CoadditionName = "coaddition"

// Statistics accepted by the coaddition task.
const (
	StatisticMean = "MEAN"
	StatisticSum  = "SUM"
)

// CoadditionConnections declares the datasets of the coaddition task.
func CoadditionConnections() (*connection.Class, error) {
	return connection.NewBuilder("CoadditionConnections").
		Dimensions("tract", "patch", "band", "skymap").
		DefaultTemplates(map[string]string{"coaddName": "deep", "calexpType": ""}).
		Add("calexps", connection.Input("{calexpType}calexp", "ExposureF",
			connection.WithDimensions("instrument", "visit", "detector", "band"),
			connection.AsMultiple(),
			connection.WithCheck(checkImage))).
		Add("skyMap", connection.AuxiliaryInput("{coaddName}Coadd_skyMap", "SkyMap",
			connection.WithDimensions("skymap"),
			connection.WithDeferLoad())).
		Add("coadd", connection.Output("{coaddName}Coadd", "ExposureF",
			connection.WithDimensions("tract", "patch", "band", "skymap"))).
		Add("nImage", connection.Output("{coaddName}Coadd_nImage", "ImageU",
			connection.WithDimensions("tract", "patch", "band", "skymap"))).
		Add("schema", connection.InitOutput("{coaddName}Coadd_schema", "SourceCatalog")).
		Build()
}

// NewCoaddition returns the coaddition task class. Inputs are images given as []float64 of
// equal length; the coadd is their pixel-wise statistic.
func NewCoaddition() (*pipeline.TaskClass, error) {
	conns, err := CoadditionConnections()
	if err != nil {
		return nil, err
	}
	cfgClass, err := pipeconfig.NewClass("CoadditionConfig", conns, pipeconfig.WithFields(
		field.Of("statistic", StatisticMean, "pixel statistic used to combine images (MEAN or SUM)"),
		field.Of("doScaleZeroPoint", true, "scale inputs to the zero point before combining"),
		field.Of("zeroPoint", 27.0, "photometric zero point of the coadd"),
		field.Of("subregionSize", []int{2000, 2000}, "width and height of the subregions processed at once"),
		field.OptionalOf[string]("warpType", "warp type the inputs were produced with"),
	))
	if err != nil {
		return nil, err
	}
	return &pipeline.TaskClass{
		Name:            CoadditionName,
		ConfigClass:     cfgClass,
		New:             newCoadditionTask,
		CanMultiprocess: true,
	}, nil
}

type coaddition struct {
	statistic string
}

func newCoadditionTask(cfg *pipeconfig.Config) (pipeline.Task, error) {
	v, err := cfg.Get("statistic")
	if err != nil {
		return nil, err
	}
	statistic, _ := v.(string)
	if statistic != StatisticMean && statistic != StatisticSum {
		return nil, fmt.Errorf("unsupported coaddition statistic %q", statistic)
	}
	return &coaddition{statistic: statistic}, nil
}

func (c *coaddition) Run(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	images, ok := inputs["calexps"].([]any)
	if !ok || len(images) == 0 {
		return nil, fmt.Errorf("coaddition requires at least one input image")
	}
	var coadd []float64
	for i, obj := range images {
		img, ok := obj.([]float64)
		if !ok {
			return nil, fmt.Errorf("image %d has type %T, expected []float64", i, obj)
		}
		if i == 0 {
			coadd = make([]float64, len(img))
		}
		if width := len(coadd); len(img) != width {
			return nil, fmt.Errorf("image %d has %d pixels, expected %d", i, len(img), width)
		}
		for p, v := range img {
			coadd[p] += v
		}
	}
	if c.statistic == StatisticMean {
		for p := range coadd {
			coadd[p] /= float64(len(images))
		}
	}
	logger.FromContext(ctx).Debug("Combined images", "count", len(images), "statistic", c.statistic)
	return map[string]any{"coadd": coadd, "nImage": len(images)}, nil
}

func checkImage(obj any) error {
	img, ok := obj.([]float64)
	if !ok {
		return fmt.Errorf("expected an image of type []float64, got %T", obj)
	}
	if len(img) == 0 {
		return fmt.Errorf("image has no pixels")
	}
	return nil
}

// Register adds the built-in task classes to r.
func Register(r *pipeline.Registry) error {
	tc, err := NewCoaddition()
	if err != nil {
		return err
	}
	return r.Register(tc)
}

// DefaultRegistry returns a registry holding the built-in task classes.
func DefaultRegistry() (*pipeline.Registry, error) {
	r := pipeline.NewRegistry()
	if err := Register(r); err != nil {
		return nil, err
	}
	return r, nil
}
