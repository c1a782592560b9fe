package airflow

import (
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// GetClient returns a controller-runtime client for the cluster behind the
// given config. The default scheme covers everything the tool touches, all
// resolved objects are core/v1.
func GetClient(restConfig *rest.Config) (client.Client, error) {
	c, err := client.New(restConfig, client.Options{})
	if err != nil {
		return nil, err
	}

	return c, nil
}
