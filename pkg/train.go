package pkg

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nlpodyssey/spago/pkg/mat/rand"
	"github.com/nlpodyssey/spago/pkg/ml/ag"
	"github.com/nlpodyssey/spago/pkg/ml/losses"
	"github.com/nlpodyssey/spago/pkg/ml/nn"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd"
	"github.com/nlpodyssey/spago/pkg/ml/optimizers/gd/sgd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"featurenet/pkg/config"
	"featurenet/pkg/dataset"
	"featurenet/pkg/io"
	"featurenet/pkg/model"
	"featurenet/pkg/ranking"
)

type TrainingParameters struct {
	BatchSize    int
	Iterations   int
	LearningRate float64
	Momentum     float64
	LogPeriod    int
	RndSeed      uint64

	// ErrorThresh stops training once the mean sample error drops below it
	ErrorThresh float64

	// Timeout bounds the training loop; 0 means no limit
	Timeout time.Duration

	// ValidationSplit is the fraction of samples held out to report a validation error
	ValidationSplit float64
}

func DefaultTrainingParameters() TrainingParameters {
	return TrainingParameters{
		BatchSize:    1,
		Iterations:   1000,
		LearningRate: 0.001,
		Momentum:     0.9,
		ErrorThresh:  0.00005,
		LogPeriod:    100,
		RndSeed:      42,
	}
}

// TrainingStatus is the outcome of a training run
type TrainingStatus struct {
	Iterations int
	Error      float64
	TimedOut   bool
}

type Trainer struct {
	params    TrainingParameters
	optimizer *gd.GradientDescent
	model     *model.Network
	rnd       *rand.LockedRand
}

func NewTrainer(network *model.Network, params TrainingParameters) *Trainer {
	updater := sgd.New(sgd.NewConfig(params.LearningRate, params.Momentum, false))
	return &Trainer{
		params:    params,
		optimizer: gd.NewOptimizer(updater, nn.NewDefaultParamsIterator(network)),
		model:     network,
		rnd:       rand.NewLockedRand(params.RndSeed),
	}
}

// TrainingSet is everything derived from the records before the network is trained
type TrainingSet struct {
	View       *dataset.View
	Vocabulary *model.Vocabulary
	Samples    []*model.Sample
}

// NewTrainingSet builds the view, the vocabulary and the samples for records. It fails with a
// ConfigurationError when there is nothing to learn from.
func NewTrainingSet(records []*dataset.Record, cfg config.DatasetConfig) (*TrainingSet, error) {
	if len(records) == 0 {
		return nil, &dataset.ConfigurationError{Reason: "no records to train on"}
	}
	view := buildView(records, cfg)
	vocabulary := model.BuildVocabulary(view)
	if vocabulary.FeatureCount() == 0 {
		return nil, &dataset.ConfigurationError{Reason: "the dataset has no features"}
	}
	if vocabulary.LabelCount() == 0 {
		return nil, &dataset.ConfigurationError{Reason: "the dataset has no labels"}
	}

	vectorizer := model.NewVectorizer(vocabulary)
	var samples []*model.Sample
	if cfg.FeatureEncoding() == config.EncodingNumeric {
		var err error
		if samples, err = vectorizer.TabularSamples(records, cfg.NumericLabel()); err != nil {
			return nil, err
		}
	} else {
		samples = vectorizer.ListedSamples(view)
	}
	if len(samples) == 0 {
		return nil, &dataset.ConfigurationError{Reason: "no samples to train on"}
	}
	log.Info().
		Int("Labels", vocabulary.LabelCount()).
		Int("Features", vocabulary.FeatureCount()).
		Int("Samples", len(samples)).
		Msg("Built vocabulary")
	return &TrainingSet{View: view, Vocabulary: vocabulary, Samples: samples}, nil
}

// Train fits a new network on the dataset in trainFile and saves the trained model, its vocabulary,
// the merged records and the dataset config into outputDir.
func Train(ctx context.Context, fs afero.Fs, trainFile, configFile, outputDir string, networkConfig model.NetworkConfig, trainingParams TrainingParameters) error {
	cfg, err := loadDatasetConfig(fs, configFile)
	if err != nil {
		return err
	}
	records, err := loadRecords(fs, trainFile, cfg)
	if err != nil {
		return err
	}
	set, err := NewTrainingSet(records, cfg)
	if err != nil {
		return err
	}

	network, err := model.NewNetwork(set.Vocabulary.FeatureCount(), set.Vocabulary.LabelCount(), networkConfig.HiddenLayers, networkConfig.Activation)
	if err != nil {
		return err
	}
	network.Init(trainingParams.RndSeed)

	if trainingParams.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, trainingParams.Timeout)
		defer cancel()
	}
	status := NewTrainer(network, trainingParams).Fit(ctx, set.Samples)
	log.Info().
		Int("Iterations", status.Iterations).
		Float64("Error", status.Error).
		Bool("TimedOut", status.TimedOut).
		Msg("Training finished")

	store := io.NewStore(fs, outputDir)
	if err := store.SaveView(set.View); err != nil {
		return err
	}
	if err := store.SaveModel(network); err != nil {
		return err
	}
	if err := store.SaveRecords(records); err != nil {
		return err
	}
	cfgData, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("error encoding dataset config: %w", err)
	}
	if err := store.WriteFile(io.ConfigFile, cfgData); err != nil {
		return err
	}
	log.Info().Str("Directory", outputDir).Msg("Saved trained model")

	testInternal(network, set.Vocabulary, records, cfg, ranking.Options{})
	return nil
}

func loadDatasetConfig(fs afero.Fs, configFile string) (config.DatasetConfig, error) {
	if configFile == "" {
		cfg := config.DefaultDatasetConfig()
		cfg.Shape = config.ShapeListed
		return cfg, nil
	}
	return config.LoadDatasetConfig(fs, configFile)
}

// Fit trains the network until the iterations run out, the mean error falls under the threshold
// or ctx is done. Running out of time is not an error: the network keeps what it learnt.
func (t *Trainer) Fit(ctx context.Context, samples []*model.Sample) TrainingStatus {
	data := io.NewDataSet(samples, t.params.BatchSize, t.params.RndSeed)
	var validation *io.DataSet
	if held := int(math.Round(float64(data.Size()) * t.params.ValidationSplit)); held > 0 && held < data.Size() {
		splits := data.RandomSplit(data.Size()-held, held)
		data, validation = splits[0], splits[1]
	}

	status := TrainingStatus{Error: math.Inf(1)}
	for iteration := 0; iteration < t.params.Iterations; iteration++ {
		if ctx.Err() != nil {
			status.TimedOut = true
			log.Warn().Int("Iteration", iteration).Msg("Training stopped before convergence: " + ctx.Err().Error())
			break
		}

		t.optimizer.IncEpoch()
		data.ResetOrder(io.RandomOrder)
		totalError := 0.0
		for batch := data.Next(); len(batch) > 0; batch = data.Next() {
			totalError += t.trainBatch(batch)
		}
		status.Iterations = iteration + 1
		status.Error = totalError / float64(data.Size())

		if t.params.LogPeriod > 0 && iteration%t.params.LogPeriod == 0 {
			event := log.Info().Int("Iteration", iteration).Float64("Error", status.Error)
			if validation != nil {
				event = event.Float64("ValidationError", t.meanError(validation))
			}
			event.Msg("")
		}
		if status.Error < t.params.ErrorThresh {
			break
		}
	}
	return status
}

// trainBatch takes one optimizer step on the batch mean of the summed squared output errors and
// returns the total sample error of the batch.
func (t *Trainer) trainBatch(batch io.DataBatch) float64 {
	t.optimizer.IncBatch()

	g := ag.NewGraph(ag.Rand(t.rnd))
	defer g.Clear()
	proc := t.model.NewProc(g)
	outputs := proc.Forward(createInputNodes(batch, g, t.model)...)

	var loss ag.Node
	batchError := 0.0
	for i, sample := range batch {
		loss = g.Add(loss, losses.MSE(g, outputs[i], t.model.TargetNode(g, sample.Output), false))
		batchError += sampleError(outputs[i].Value().Data(), sample.Output)
	}
	loss = g.DivScalar(loss, g.NewScalar(float64(len(batch))))

	g.Backward(loss)
	t.optimizer.Optimize()
	return batchError
}

func createInputNodes(batch io.DataBatch, g *ag.Graph, network *model.Network) []ag.Node {
	input := make([]ag.Node, len(batch))
	for i, sample := range batch {
		input[i] = network.InputNode(g, sample.Input)
	}
	return input
}

func (t *Trainer) meanError(data *io.DataSet) float64 {
	data.ResetOrder(io.OriginalOrder)
	total := 0.0
	for batch := data.Next(); len(batch) > 0; batch = data.Next() {
		for _, sample := range batch {
			total += sampleError(t.model.Predict(sample.Input), sample.Output)
		}
	}
	return total / float64(data.Size())
}

func sampleError(output, target []float64) float64 {
	if len(output) == 0 {
		return 0
	}
	sum := 0.0
	for i := range output {
		expected := 0.0
		if i < len(target) {
			expected = target[i]
		}
		diff := output[i] - expected
		sum += diff * diff
	}
	return sum / float64(len(output))
}
