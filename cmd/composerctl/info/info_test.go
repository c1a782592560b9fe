package info

import (
	"encoding/json"
	"testing"

	"github.com/burmanm/composer-client/pkg/airflow"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"k8s.io/cli-runtime/pkg/genericclioptions"
)

func resolvedFixture() *airflow.ResolvedEnvironment {
	return &airflow.ResolvedEnvironment{
		ClusterName:    "europe-west1-etl-12ab34cd-gke",
		Namespace:      "composer-1-17-2-airflow-2-1-4-12ab34cd",
		WorkerPodName:  "airflow-worker-79d6f4c8b-x2zpq",
		WebUIURL:       "https://a1b2c3d4e5f6g7h8-tp.appspot.com",
		DagBucket:      "gs://europe-west1-etl-12ab34cd-bucket/dags",
		ImageVersion:   "composer-1.17.2-airflow-2.1.4",
		DBUser:         "root",
		DBPassword:     "hunter2",
		DBHost:         "airflow-sqlproxy-service.default",
		DBPort:         "3306",
		DBDatabaseName: "composer-1-17-2-airflow-2-1-4-12ab34cd",
	}
}

func TestValidateOutputFormat(t *testing.T) {
	require := require.New(t)

	for _, format := range []string{"text", "json", "yaml"} {
		o := newOptions(genericclioptions.NewTestIOStreamsDiscard())
		o.output = format
		require.NoError(o.Validate())
	}

	o := newOptions(genericclioptions.NewTestIOStreamsDiscard())
	o.output = "table"
	require.ErrorIs(o.Validate(), errUnknownFormat)
}

func TestRunText(t *testing.T) {
	require := require.New(t)

	streams, _, out, _ := genericclioptions.NewTestIOStreams()
	o := newOptions(streams)
	o.output = "text"
	o.resolved = resolvedFixture()

	require.NoError(o.Run())

	require.Contains(out.String(), "GKE cluster:   europe-west1-etl-12ab34cd-gke")
	require.Contains(out.String(), "Worker pod:    airflow-worker-79d6f4c8b-x2zpq")
	require.Contains(out.String(), "DB port:       3306")
}

func TestRunJSON(t *testing.T) {
	require := require.New(t)

	streams, _, out, _ := genericclioptions.NewTestIOStreams()
	o := newOptions(streams)
	o.output = "json"
	o.resolved = resolvedFixture()

	require.NoError(o.Run())

	var decoded airflow.ResolvedEnvironment
	require.NoError(json.Unmarshal(out.Bytes(), &decoded))
	require.Equal(*o.resolved, decoded)
}

func TestRunYAML(t *testing.T) {
	require := require.New(t)

	streams, _, out, _ := genericclioptions.NewTestIOStreams()
	o := newOptions(streams)
	o.output = "yaml"
	o.resolved = resolvedFixture()

	require.NoError(o.Run())

	var decoded airflow.ResolvedEnvironment
	require.NoError(yaml.Unmarshal(out.Bytes(), &decoded))
	require.Equal(*o.resolved, decoded)
}
