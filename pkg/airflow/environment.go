package airflow

// ResolvedEnvironment carries every identifier the verbs can resolve for an
// environment. Database fields come from the worker's connection string and
// are never persisted.
type ResolvedEnvironment struct {
	ClusterName    string `json:"cluster_name" yaml:"cluster_name"`
	Namespace      string `json:"namespace" yaml:"namespace"`
	WorkerPodName  string `json:"worker_pod_name" yaml:"worker_pod_name"`
	WebUIURL       string `json:"web_ui_url" yaml:"web_ui_url"`
	DagBucket      string `json:"dag_bucket" yaml:"dag_bucket"`
	ImageVersion   string `json:"image_version" yaml:"image_version"`
	DBUser         string `json:"db_user" yaml:"db_user"`
	DBPassword     string `json:"db_password" yaml:"db_password"`
	DBHost         string `json:"db_host" yaml:"db_host"`
	DBPort         string `json:"db_port" yaml:"db_port"`
	DBDatabaseName string `json:"db_database_name" yaml:"db_database_name"`
}
