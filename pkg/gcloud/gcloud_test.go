package gcloud

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var describeOutput = []byte(`{
  "config": {
    "airflowUri": "https://a1b2c3d4e5f6g7h8-tp.appspot.com",
    "dagGcsPrefix": "gs://europe-west1-env-1-bucket/dags",
    "gkeCluster": "projects/my-project/zones/europe-west1-b/clusters/europe-west1-env-1-gke",
    "nodeCount": 3,
    "softwareConfig": {
      "imageVersion": "composer-1.17.0-airflow-1.10.15",
      "pythonVersion": "3"
    }
  },
  "name": "projects/my-project/locations/europe-west1/environments/env-1",
  "state": "RUNNING",
  "uuid": "8d1c5e2f-4a6b-4c3d-9e0f-112233445566"
}`)

func TestDecodeEnvironment(t *testing.T) {
	require := require.New(t)

	env, err := decodeEnvironment(describeOutput)
	require.NoError(err)
	require.Equal("RUNNING", env.State)
	require.Equal("https://a1b2c3d4e5f6g7h8-tp.appspot.com", env.Config.AirflowURI)
	require.Equal("gs://europe-west1-env-1-bucket/dags", env.Config.DagGcsPrefix)
	require.Equal("projects/my-project/zones/europe-west1-b/clusters/europe-west1-env-1-gke", env.Config.GKECluster)
	require.Equal("composer-1.17.0-airflow-1.10.15", env.Config.SoftwareConfig.ImageVersion)
}

func TestDecodeEnvironmentWithoutCluster(t *testing.T) {
	require := require.New(t)

	_, err := decodeEnvironment([]byte(`{"name": "x", "config": {}}`))
	require.Error(err)
}

func TestDecodeEnvironmentInvalidJSON(t *testing.T) {
	require := require.New(t)

	_, err := decodeEnvironment([]byte("ERROR: (gcloud.composer) not json"))
	require.Error(err)
}

func TestParseClusterPathZonal(t *testing.T) {
	require := require.New(t)

	ref, err := ParseClusterPath("projects/my-project/zones/europe-west1-b/clusters/env-1-gke")
	require.NoError(err)
	require.Equal("my-project", ref.Project)
	require.Equal("europe-west1-b", ref.Location)
	require.Equal("env-1-gke", ref.Name)
	require.True(ref.Zonal)
	require.Equal("--zone", ref.locationFlag())
}

func TestParseClusterPathRegional(t *testing.T) {
	require := require.New(t)

	ref, err := ParseClusterPath("projects/my-project/locations/europe-west1/clusters/env-1-gke")
	require.NoError(err)
	require.False(ref.Zonal)
	require.Equal("--region", ref.locationFlag())
}

func TestParseClusterPathZoneUnderLocations(t *testing.T) {
	require := require.New(t)

	// Newer environments report zonal clusters under locations as well
	ref, err := ParseClusterPath("projects/my-project/locations/us-central1-a/clusters/env-1-gke")
	require.NoError(err)
	require.False(ref.Zonal)
	require.Equal("--zone", ref.locationFlag())
}

func TestParseClusterPathMalformed(t *testing.T) {
	require := require.New(t)

	inputs := []string{
		"",
		"env-1-gke",
		"projects/my-project/zones/europe-west1-b",
		"projects/my-project/zones/europe-west1-b/pools/default",
		"organizations/my-project/zones/europe-west1-b/clusters/env-1-gke",
	}

	for _, input := range inputs {
		_, err := ParseClusterPath(input)
		require.Error(err, "input %q", input)
	}
}
