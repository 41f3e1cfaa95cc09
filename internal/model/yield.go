package model

import (
	"context"
	"fmt"
)

// FeatureCount is the width of the yield regressor's input.
const FeatureCount = 9

type YieldPredictor struct {
	crop      *Encoder
	season    *Encoder
	state     *Encoder
	regressor Runner
}

func NewYieldPredictor(crop, season, state *Encoder, regressor Runner) *YieldPredictor {
	return &YieldPredictor{
		crop:      crop,
		season:    season,
		state:     state,
		regressor: regressor,
	}
}

// Features encodes the categorical fields and lays out the feature vector
// in training order.
func (p *YieldPredictor) Features(in YieldInput) ([]float32, error) {
	crop, err := p.crop.Transform(in.Crop)
	if err != nil {
		return nil, fmt.Errorf("crop: %w", err)
	}
	season, err := p.season.Transform(in.Season)
	if err != nil {
		return nil, fmt.Errorf("season: %w", err)
	}
	state, err := p.state.Transform(in.State)
	if err != nil {
		return nil, fmt.Errorf("state: %w", err)
	}

	return []float32{
		float32(crop),
		float32(in.CropYear),
		float32(season),
		float32(state),
		float32(in.Area),
		float32(in.Production),
		float32(in.AnnualRainfall),
		float32(in.Fertilizer),
		float32(in.Pesticide),
	}, nil
}

func (p *YieldPredictor) Predict(ctx context.Context, in YieldInput) (*YieldPrediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	features, err := p.Features(in)
	if err != nil {
		return nil, err
	}

	out, err := p.regressor.Run(features)
	if err != nil {
		return nil, fmt.Errorf("yield: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: yield regressor returned no value", ErrShapeMismatch)
	}

	return &YieldPrediction{Yield: out[0], Features: features}, nil
}
