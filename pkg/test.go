package pkg

import (
	"fmt"
	gio "io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/nlpodyssey/spago/pkg/ml/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"gonum.org/v1/gonum/stat"

	"featurenet/pkg/config"
	"featurenet/pkg/dataset"
	"featurenet/pkg/io"
	"featurenet/pkg/model"
	"featurenet/pkg/ranking"
)

// Test runs the model trained into modelDir on inputFile, or on the dataset it was trained on when
// inputFile is empty. The report is printed to out and, when outputFile is set, written as CSV.
func Test(fs afero.Fs, modelDir, inputFile, outputFile string, opts ranking.Options, out gio.Writer) error {
	store := io.NewStore(fs, modelDir)

	cfgData, err := store.ReadFile(io.ConfigFile)
	if err != nil {
		return err
	}
	cfg, err := config.ParseDatasetConfig(cfgData)
	if err != nil {
		return fmt.Errorf("error loading dataset config from %s: %w", store.Path(io.ConfigFile), err)
	}
	view, err := store.LoadView()
	if err != nil {
		return err
	}
	vocabulary := model.BuildVocabulary(view)
	network, err := store.LoadModel(vocabulary)
	if err != nil {
		return err
	}

	var records []*dataset.Record
	if inputFile != "" {
		records, err = loadRecords(fs, inputFile, cfg)
	} else {
		records, err = store.LoadRecords()
	}
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return &dataset.ConfigurationError{Reason: "no data to test"}
	}

	results := testInternal(network, vocabulary, records, cfg, opts)
	if err := ranking.Print(out, results); err != nil {
		return fmt.Errorf("error printing report: %w", err)
	}

	if outputFile != "" {
		outputWriter, err := fs.Create(outputFile)
		if err != nil {
			return fmt.Errorf("error opening output file %s: %w", outputFile, err)
		}
		defer outputWriter.Close()
		if err := ranking.WriteCSV(outputWriter, results); err != nil {
			return err
		}
	}
	return nil
}

// example is one thing to predict: a label with the features shown to the classifier
type example struct {
	label    string
	features []string
	input    []float64
	target   dataset.Value
}

func testExamples(vectorizer *model.Vectorizer, records []*dataset.Record, cfg config.DatasetConfig) []example {
	if cfg.FeatureEncoding() == config.EncodingValues {
		view := dataset.ValuesView(records)
		examples := make([]example, 0, view.Len())
		for _, label := range view.Labels {
			features := view.Features[label]
			examples = append(examples, example{
				label:    label,
				features: features,
				input:    vectorizer.Features(features),
				target:   dataset.StringValue(label),
			})
		}
		return examples
	}

	examples := make([]example, 0, len(records))
	for _, r := range records {
		features := make([]string, len(r.Attributes))
		for i, attr := range r.Attributes {
			features[i] = attr.Name + "=" + attr.Value.String()
		}
		examples = append(examples, example{
			label:    r.Key(),
			features: features,
			input:    vectorizer.Attributes(r.Attributes),
			target:   r.Target,
		})
	}
	return examples
}

// testInternal ranks the predictions for every example and logs the evaluation metrics.
func testInternal(classifier model.Classifier, vocabulary *model.Vocabulary, records []*dataset.Record, cfg config.DatasetConfig, opts ranking.Options) []ranking.Result {
	vectorizer := model.NewVectorizer(vocabulary)

	evaluators := []modelEvaluator{&classificationEvaluator{
		metrics:    map[string]*stats.ClassMetrics{},
		vocabulary: vocabulary,
	}}
	if cfg.NumericLabel() {
		evaluators = append(evaluators, &regressionEvaluator{vocabulary: vocabulary})
	}

	examples := testExamples(vectorizer, records, cfg)
	results := make([]ranking.Result, 0, len(examples))
	for _, ex := range examples {
		output := classifier.Predict(ex.input)
		for _, evaluator := range evaluators {
			evaluator.EvaluatePrediction(output, ex)
		}
		results = append(results, ranking.Result{
			Label:       ex.label,
			Features:    ex.features,
			Predictions: ranking.Rank(vectorizer.Scores(output), opts),
		})
	}

	for _, evaluator := range evaluators {
		evaluator.LogMetrics()
		log.Info().Float64("Loss", evaluator.Loss()).Msg("")
	}
	return results
}

type modelEvaluator interface {
	EvaluatePrediction(output []float64, ex example)
	LogMetrics()
	Loss() float64
}

type classificationEvaluator struct {
	predictionCount int
	loss            float64
	metrics         map[string]*stats.ClassMetrics
	vocabulary      *model.Vocabulary
}

func (c *classificationEvaluator) EvaluatePrediction(output []float64, ex example) {
	class, _ := argmax(output)
	predictedClass := c.vocabulary.Labels.IndexToName[class]
	label := dataset.NormalizeToken(ex.label)

	expected := make([]float64, len(output))
	if index, ok := c.vocabulary.Labels.ContainsName(label); ok && index < len(expected) {
		expected[index] = 1
	}
	c.loss += sampleError(output, expected)
	c.predictionCount++

	labelClassMetrics, ok := c.metrics[label]
	if !ok {
		labelClassMetrics = stats.NewMetricCounter()
		c.metrics[label] = labelClassMetrics
	}
	predictedClassMetrics, ok := c.metrics[predictedClass]
	if !ok {
		predictedClassMetrics = stats.NewMetricCounter()
		c.metrics[predictedClass] = predictedClassMetrics
	}

	if label == predictedClass {
		labelClassMetrics.IncTruePos()
	} else {
		labelClassMetrics.IncFalseNeg()
		predictedClassMetrics.IncFalsePos()
	}
}

func (c *classificationEvaluator) LogMetrics() {
	// Sort class names for deterministic output
	for _, class := range sortClasses(c.metrics) {
		result := c.metrics[class]
		log.Info().Str("Class", class).
			Int("TP", result.TruePos).
			Int("FP", result.FalsePos).
			Int("FN", result.FalseNeg).
			Float64("Precision", result.Precision()).
			Float64("Recall", result.Recall()).
			Float64("F1", result.F1Score()).
			Msg("")
	}

	macroF1, microF1 := computeOverallF1(c.metrics)
	log.Info().Float64("MacroF1", macroF1).Float64("MicroF1", microF1).Msg("")
}

func (c *classificationEvaluator) Loss() float64 {
	if c.predictionCount == 0 {
		return 0
	}
	return c.loss / float64(c.predictionCount)
}

func computeOverallF1(metrics map[string]*stats.ClassMetrics) (float64, float64) {
	if len(metrics) == 0 {
		return 0, 0
	}
	macroF1 := 0.0
	for _, metric := range metrics {
		macroF1 += metric.F1Score()
	}
	macroF1 /= float64(len(metrics))

	micro := stats.NewMetricCounter()
	for _, result := range metrics {
		micro.TruePos += result.TruePos
		micro.FalsePos += result.FalsePos
		micro.FalseNeg += result.FalseNeg
		micro.TrueNeg += result.TrueNeg
	}
	return macroF1, micro.F1Score()
}

func sortClasses(metrics map[string]*stats.ClassMetrics) []string {
	result := make([]string, 0, len(metrics))
	for class := range metrics {
		result = append(result, class)
	}
	sort.Strings(result)
	return result
}

// regressionEvaluator reads numeric labels back as numbers: the estimate is the value of the
// top scoring label.
type regressionEvaluator struct {
	estimated  []float64
	values     []float64
	vocabulary *model.Vocabulary
}

func (r *regressionEvaluator) EvaluatePrediction(output []float64, ex example) {
	class, _ := argmax(output)
	estimate, err := strconv.ParseFloat(strings.TrimSpace(r.vocabulary.Labels.IndexToName[class]), 64)
	if err != nil {
		estimate = math.NaN()
	}
	log.Debug().Float64("Target", ex.target.Float()).Float64("Prediction", estimate).Msg("")
	r.estimated = append(r.estimated, estimate)
	r.values = append(r.values, ex.target.Float())
}

func (r *regressionEvaluator) LogMetrics() {
	if len(r.values) < 2 {
		return
	}
	r2 := stat.RSquaredFrom(r.estimated, r.values, nil)
	log.Info().Float64("R-squared", r2).Msg("")
}

func (r *regressionEvaluator) Loss() float64 {
	if len(r.values) == 0 {
		return 0
	}
	return sampleError(r.estimated, r.values)
}

func argmax(data []float64) (int, float64) {
	maxInd := 0
	for i := range data {
		if data[i] > data[maxInd] {
			maxInd = i
		}
	}
	return maxInd, data[maxInd]
}
