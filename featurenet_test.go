package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"featurenet/pkg/config"
)

const symptoms = `Disease,Symptom_1,Symptom_2,Symptom_3
Fungal infection,itching,skin_rash,nodal_skin_eruptions
Allergy,continuous_sneezing,shivering,chills
GERD,stomach_pain,acidity,ulcers_on_tongue
Fungal infection,itching,dischromic _patches
Allergy,watering_from_eyes,chills
`

func run(t *testing.T, args string) (string, error) {
	env := config.Environment{LogLevel: "error", LogFormat: "json", TrainedDir: "trained"}
	cmd := RootCommand(env)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(strings.Fields(args))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSymptoms(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "symptoms.csv")
	configFile := filepath.Join(dir, "symptoms.yaml")
	modelDir := filepath.Join(dir, "trained")
	reportFile := filepath.Join(dir, "report.csv")
	require.NoError(t, ioutil.WriteFile(dataFile, []byte(symptoms), 0644))
	require.NoError(t, ioutil.WriteFile(configFile, []byte("shape: listed\n"), 0644))

	_, err := run(t, "train --log-level error -i "+dataFile+" -c "+configFile+" -o "+modelDir+" -n 300 -l 0.1 --hidden-layers 16")
	require.NoError(t, err)

	out, err := run(t, "test --log-level error -m "+modelDir+" -t 2 -p -o "+reportFile)
	require.NoError(t, err)
	require.Equal(t, 3, strings.Count(out, "Predicted Features:"))
	require.Contains(t, out, "Label: fungal infection\nFeatures: itching, skin_rash, nodal_skin_eruptions, dischromic _patches\n")
	require.Contains(t, out, "Label: allergy\n")
	require.Contains(t, out, "Label: gerd\n")

	report, err := ioutil.ReadFile(reportFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(report), "label,rank,feature,score,percentage\n"))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "test --log-level verbose -m missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "verbose")
}

func TestMissingModel(t *testing.T) {
	_, err := run(t, "test --log-level error -m "+filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
}
