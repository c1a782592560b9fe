package gcloud

import (
	"context"
	"encoding/json"
	"fmt"
)

// Environment is the subset of a Composer environment description the tool
// consumes.
type Environment struct {
	Name   string            `json:"name"`
	State  string            `json:"state"`
	Config EnvironmentConfig `json:"config"`
}

type EnvironmentConfig struct {
	AirflowURI     string         `json:"airflowUri"`
	DagGcsPrefix   string         `json:"dagGcsPrefix"`
	GKECluster     string         `json:"gkeCluster"`
	SoftwareConfig SoftwareConfig `json:"softwareConfig"`
}

type SoftwareConfig struct {
	ImageVersion string `json:"imageVersion"`
}

// DescribeEnvironment fetches the Composer environment description for the
// given name and location.
func (c *CLI) DescribeEnvironment(ctx context.Context, name, location string) (*Environment, error) {
	args := []string{"composer", "environments", "describe", name, "--location", location, "--format", "json"}
	if c.Project != "" {
		args = append(args, "--project", c.Project)
	}

	out, err := c.run(ctx, nil, args...)
	if err != nil {
		return nil, err
	}

	return decodeEnvironment(out)
}

func decodeEnvironment(data []byte) (*Environment, error) {
	env := &Environment{}
	if err := json.Unmarshal(data, env); err != nil {
		return nil, fmt.Errorf("unable to decode environment description: %w", err)
	}

	if env.Config.GKECluster == "" {
		return nil, fmt.Errorf("environment description carries no GKE cluster reference")
	}

	return env, nil
}
