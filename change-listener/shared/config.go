package shared

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const CONFIG_PREFIX = "CHANGE_LISTENER"

type AppConfig struct {
	ApiServerHostname string `split_words:"true" default:"genealogy:8080"`
	ApiServerProtocol string `split_words:"true" default:"http"`

	GcpProjectID    string `split_words:"true" default:"genealogy-tree"`
	GcpSubscription string `split_words:"true" default:"roster-changes-listener"`
	GcpTopic        string `split_words:"true" default:"roster-changes"`

	ServiceAccount string `split_words:"true"`
}

func InitAppConfiguration() (config *AppConfig, err error) {
	config = &AppConfig{}

	if err := envconfig.Process(CONFIG_PREFIX, config); err != nil {
		return nil, fmt.Errorf("failed to parse env vars: %v", err)
	}

	return
}
