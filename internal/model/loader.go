package model

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Artifact file names inside the models directory.
const (
	DiseaseModelFile  = "disease.onnx"
	DiseaseMetaFile   = "disease.json"
	SpeciesModelFile  = "species.onnx"
	SpeciesMetaFile   = "species.json"
	YieldModelFile    = "crop.onnx"
	YieldMetaFile     = "crop.json"
	CropEncoderFile   = "crop_enc.json"
	SeasonEncoderFile = "season_enc.json"
	StateEncoderFile  = "state_enc.json"
	DiseaseModelName  = "disease"
	SpeciesModelName  = "species"
	YieldModelName    = "yield"
)

// Models holds every artifact that loaded. A nil field means the artifact
// was missing or broken at start-up.
type Models struct {
	Disease *Classifier
	Species *Classifier
	Yield   *YieldPredictor

	sessions []*Session
}

// LoadModels loads all artifacts from dir. Failures are logged and leave the
// corresponding field nil so the rest of the application keeps working.
func LoadModels(dir string, logger *slog.Logger) *Models {
	m := &Models{}

	if s, meta, err := m.openSession(dir, DiseaseModelFile, DiseaseMetaFile, DiseaseMetadata()); err != nil {
		logger.Warn("Disease classifier unavailable", "dir", dir, "error", err)
	} else {
		m.Disease = NewClassifier(DiseaseModelName, s, meta, logger)
		logger.Info("Model loaded", "model", DiseaseModelName, "classes", len(meta.Classes))
	}

	if s, meta, err := m.openSession(dir, SpeciesModelFile, SpeciesMetaFile, SpeciesMetadata()); err != nil {
		logger.Warn("Species classifier unavailable", "dir", dir, "error", err)
	} else {
		m.Species = NewClassifier(SpeciesModelName, s, meta, logger)
		logger.Info("Model loaded", "model", SpeciesModelName, "classes", len(meta.Classes))
	}

	if y, err := m.loadYield(dir); err != nil {
		logger.Warn("Yield predictor unavailable", "dir", dir, "error", err)
	} else {
		m.Yield = y
		logger.Info("Model loaded", "model", YieldModelName)
	}

	return m
}

func (m *Models) loadYield(dir string) (*YieldPredictor, error) {
	encoders := make([]*Encoder, 0, 3)
	for _, name := range []string{CropEncoderFile, SeasonEncoderFile, StateEncoderFile} {
		enc, err := LoadEncoder(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		encoders = append(encoders, enc)
	}

	s, _, err := m.openSession(dir, YieldModelFile, YieldMetaFile, YieldMetadata())
	if err != nil {
		return nil, err
	}
	return NewYieldPredictor(encoders[0], encoders[1], encoders[2], s), nil
}

// openSession reads optional metadata next to the model, then opens it.
func (m *Models) openSession(dir, modelFile, metaFile string, defaults Metadata) (*Session, Metadata, error) {
	modelPath := filepath.Join(dir, modelFile)
	if _, err := os.Stat(modelPath); err != nil {
		return nil, Metadata{}, fmt.Errorf("model file: %w", err)
	}

	meta, err := ReadMetadata(filepath.Join(dir, metaFile), defaults)
	if errors.Is(err, os.ErrNotExist) {
		meta, err = defaults.withDefaults(Metadata{}), nil
	}
	if err != nil {
		return nil, Metadata{}, err
	}

	s, err := NewSession(modelPath, meta)
	if err != nil {
		return nil, Metadata{}, err
	}
	m.sessions = append(m.sessions, s)
	return s, meta, nil
}

func (m *Models) Close() {
	for _, s := range m.sessions {
		s.Close()
	}
	m.sessions = nil
}
