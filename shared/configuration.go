package shared

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const CONFIG_PREFIX = "GENEALOGY"

type AppConfig struct {
	PgUsername             string `split_words:"true" default:"postgres"`
	PgPassword             string `split_words:"true" default:"postgres"`
	PgContactPoint         string `split_words:"true" default:"127.0.0.1"`
	PgContactPort          string `split_words:"true" default:"5432"`
	PgDbName               string `split_words:"true" default:"genealogy"`
	SqlMigrationsSourceDir string `split_words:"true" default:"./sql"`
	GcpProjectID           string `split_words:"true" default:"genealogy-tree"`

	FirebaseServiceAccount string `split_words:"true" default:"./firebase-sa.json"`

	PubsubTopic          string `split_words:"true" default:"roster-changes"`
	PubsubServiceAccount string `split_words:"true"`
	PublishChangeEvents  bool   `split_words:"true" default:"false"`

	TrustServiceHeader bool `split_words:"true" default:"false"`

	TestAuthMode     bool   `split_words:"true" default:"true"`
	TestAuthSecret   string `split_words:"true" default:"local-dev-secret"`
	StartupMigration bool   `split_words:"true" default:"false"`

	SwaggerFilePath string `split_words:"true" default:"./.docs/swagger.yml"`
}

func InitAppConfiguration() (config *AppConfig, err error) {
	config = &AppConfig{}
	if err := envconfig.Process(CONFIG_PREFIX, config); err != nil {
		return nil, fmt.Errorf("failed to parse env vars: %v", err)
	}

	return
}
