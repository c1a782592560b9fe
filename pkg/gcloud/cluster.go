package gcloud

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Zones carry a single letter suffix after the region, such as
// europe-west1-b.
var zoneSuffix = regexp.MustCompile(`-[a-z]$`)

// ClusterRef identifies a GKE cluster, parsed from the full resource path a
// Composer environment description reports.
type ClusterRef struct {
	Project  string
	Location string
	Zonal    bool
	Name     string
}

// ParseClusterPath splits a cluster resource path of the form
// projects/<project>/zones/<zone>/clusters/<name>. Newer environments report
// locations instead of zones.
func ParseClusterPath(path string) (ClusterRef, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[4] != "clusters" {
		return ClusterRef{}, fmt.Errorf("unrecognized cluster path %q", path)
	}

	ref := ClusterRef{Project: parts[1], Location: parts[3], Name: parts[5]}
	switch parts[2] {
	case "zones":
		ref.Zonal = true
	case "locations", "regions":
	default:
		return ClusterRef{}, fmt.Errorf("unrecognized cluster path %q", path)
	}

	return ref, nil
}

// locationFlag picks the get-credentials flag matching the cluster topology.
func (r ClusterRef) locationFlag() string {
	if r.Zonal || zoneSuffix.MatchString(r.Location) {
		return "--zone"
	}
	return "--region"
}

// Kubeconfig is a scoped temporary credentials file for cluster access.
// Close removes it and is safe to call more than once.
type Kubeconfig struct {
	Path string

	once sync.Once
}

// Close removes the credentials file.
func (k *Kubeconfig) Close() {
	k.once.Do(func() {
		os.Remove(k.Path)
	})
}

// ClusterCredentials writes cluster access credentials into a uniquely named
// temporary kubeconfig and returns a guard that removes it. The file path is
// handed to gcloud through KUBECONFIG so the user's own configuration is
// never touched.
func (c *CLI) ClusterCredentials(ctx context.Context, ref ClusterRef) (*Kubeconfig, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("composerctl-kubeconfig-%s", uuid.New().String()))

	args := []string{"container", "clusters", "get-credentials", ref.Name, ref.locationFlag(), ref.Location}
	if ref.Project != "" {
		args = append(args, "--project", ref.Project)
	}

	if _, err := c.run(ctx, []string{"KUBECONFIG=" + path}, args...); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Kubeconfig{Path: path}, nil
}
