package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/lvaman/genealogy/change-listener/consumers"
	. "github.com/lvaman/genealogy/change-listener/shared"
	"github.com/lvaman/genealogy/common/api"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"

	"github.com/facebookgo/inject"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

var (
	ctx    = context.Background()
	logger = log.NewLogger("change-listener")
	config *AppConfig

	pubSubClient *messaging.Client
	apiClient    api.Client

	consumer         *consumers.Consumer
	integrityHandler *consumers.IntegrityHandler
)

func init() {
	checkErrAndExit(initAppConfiguration())
	checkErrAndExit(initApiClient())
	checkErrAndExit(initConsumerStarter())
	checkErrAndExit(initPubSubClient())
	checkErrAndExit(initApplicationGraph())
}

func initAppConfiguration() (err error) {
	config, err = InitAppConfiguration()
	return
}

func initApiClient() (err error) {
	apiClient, err = api.NewDefaultClient(config.ApiServerProtocol, config.ApiServerHostname)
	return
}

func initConsumerStarter() (err error) {
	integrityHandler = &consumers.IntegrityHandler{}
	consumer = &consumers.Consumer{}
	consumer.EventHandlers = append(consumer.EventHandlers, integrityHandler)
	return
}

func initPubSubClient() (err error) {
	pubSubClient, err = messaging.New(messaging.ClientOptions{
		ProjectID:      config.GcpProjectID,
		Subscription:   config.GcpSubscription,
		Topic:          config.GcpTopic,
		CredentialPath: config.ServiceAccount,
	})
	return
}

func initApplicationGraph() error {
	g := inject.Graph{}
	g.Provide(
		&inject.Object{Value: config},
		&inject.Object{Value: logger},
		&inject.Object{Value: pubSubClient},
		&inject.Object{Value: apiClient},
		&inject.Object{Value: consumer},
		&inject.Object{Value: integrityHandler},
	)
	if err := g.Populate(); err != nil {
		return errors.Wrap(err, "failed to populate")
	}
	return nil
}

func main() {
	go consumer.Start(ctx)
	startHttpServer(ctx)
}

func startHttpServer(ctx context.Context) {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	checkErrAndExit(http.ListenAndServe("0.0.0.0:8081", router))
}

func checkErrAndExit(err error) {
	if err == nil {
		return
	}
	fmt.Println(err.Error())
	os.Exit(1)
}
