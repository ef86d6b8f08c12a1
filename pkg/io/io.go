package io

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"featurenet/pkg/dataset"
	"featurenet/pkg/model"
)

const (
	VocabularyFile = "vocabulary.json"
	ModelFile      = "model.json"
	DatasetFile    = "dataset.json"
	ConfigFile     = "config.yaml"
)

// ReadCSV reads all rows of a comma separated file. Rows may have different lengths.
func ReadCSV(fs afero.Fs, path string) ([][]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening %s", path)
	}
	defer f.Close()
	return parseCSV(f, path)
}

func parseCSV(r io.Reader, path string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ','
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &dataset.ParseError{Path: path, Err: err}
	}
	return rows, nil
}

// Store reads and writes the artifacts of a trained model under one directory.
type Store struct {
	fs  afero.Afero
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{fs: afero.Afero{Fs: fs}, dir: dir}
}

// NewOsStore is a Store on the local filesystem
func NewOsStore(dir string) *Store {
	return NewStore(afero.NewOsFs(), dir)
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) Fs() afero.Fs {
	return s.fs.Fs
}

// WriteJSON encodes value into the named file, creating the store directory when needed.
func (s *Store) WriteJSON(name string, value interface{}, indent bool) error {
	if err := s.fs.MkdirAll(s.dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "error creating %s", s.dir)
	}
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(value, "", "    ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return errors.Wrapf(err, "error encoding %s", name)
	}
	if err := s.fs.WriteFile(s.Path(name), data, 0644); err != nil {
		return errors.Wrapf(err, "error writing %s", s.Path(name))
	}
	return nil
}

// ReadJSON decodes the named file into value. Malformed content is reported as a ParseError.
func (s *Store) ReadJSON(name string, value interface{}) error {
	data, err := s.fs.ReadFile(s.Path(name))
	if err != nil {
		return errors.Wrapf(err, "error reading %s", s.Path(name))
	}
	if err := json.Unmarshal(data, value); err != nil {
		return &dataset.ParseError{Path: s.Path(name), Err: err}
	}
	return nil
}

func (s *Store) WriteFile(name string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "error creating %s", s.dir)
	}
	return errors.Wrapf(s.fs.WriteFile(s.Path(name), data, 0644), "error writing %s", s.Path(name))
}

func (s *Store) ReadFile(name string) ([]byte, error) {
	data, err := s.fs.ReadFile(s.Path(name))
	return data, errors.Wrapf(err, "error reading %s", s.Path(name))
}

func (s *Store) SaveView(view *dataset.View) error {
	return s.WriteJSON(VocabularyFile, view, false)
}

func (s *Store) LoadView() (*dataset.View, error) {
	view := dataset.NewView()
	if err := s.ReadJSON(VocabularyFile, view); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Store) SaveRecords(records []*dataset.Record) error {
	return s.WriteJSON(DatasetFile, records, true)
}

func (s *Store) LoadRecords() ([]*dataset.Record, error) {
	var records []*dataset.Record
	if err := s.ReadJSON(DatasetFile, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) SaveModel(network *model.Network) error {
	return s.WriteJSON(ModelFile, network, false)
}

// LoadModel reads the network and checks that it matches the vocabulary it will be used with.
func (s *Store) LoadModel(vocabulary *model.Vocabulary) (*model.Network, error) {
	network := &model.Network{}
	if err := s.ReadJSON(ModelFile, network); err != nil {
		return nil, err
	}
	if network.InputSize() != vocabulary.FeatureCount() || network.OutputSize() != vocabulary.LabelCount() {
		return nil, &dataset.ConfigurationError{Reason: errors.Errorf(
			"model %s expects %d features and %d labels, vocabulary has %d and %d",
			s.Path(ModelFile), network.InputSize(), network.OutputSize(),
			vocabulary.FeatureCount(), vocabulary.LabelCount()).Error()}
	}
	return network, nil
}
