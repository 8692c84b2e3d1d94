package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"

	"github.com/lvaman/genealogy/authentication"
	"github.com/lvaman/genealogy/chart"
	genealogyFirebase "github.com/lvaman/genealogy/common/firebase"
	"github.com/lvaman/genealogy/common/generator"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"
	. "github.com/lvaman/genealogy/common/roles"
	. "github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/common/store/migrations"
	"github.com/lvaman/genealogy/persons"
	. "github.com/lvaman/genealogy/shared"
	"github.com/lvaman/genealogy/users"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/auth"
	"github.com/facebookgo/inject"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

var (
	ctx             = context.Background()
	swagger         []byte
	logger          = log.NewLogger("genealogy")
	config          *AppConfig
	db              *gorm.DB
	stringGenerator = &generator.StringGenerator{}

	personService = &persons.PersonService{}
	chartService  = &chart.ChartService{}
	userService   = &users.UserService{}
	authService   = &authentication.AuthenticationService{}

	personHandlerFactory = &persons.HandlerFactory{}
	chartHandlerFactory  = &chart.HandlerFactory{}
	userHandlerFactory   = &users.HandlerFactory{}
	authHandlerFactory   = &authentication.HandlerFactory{}

	genealogyFirebaseClient = &genealogyFirebase.Client{}

	dbStore         = &Store{}
	changePublisher interface {
		Publish(ctx context.Context, message messaging.Message) error
	}

	firebaseClient *auth.Client
	authenticator  = &authentication.Authenticator{}
)

func init() {
	checkErrAndExit(initAppConfiguration())
	checkErrAndExit(initPostgresConnection())
	checkErrAndExit(initFirebase())
	checkErrAndExit(initMessaging())
	checkErrAndExit(initApplicationGraph())
	checkErrAndExit(initSwagger())
}

func initAppConfiguration() (err error) {
	config, err = InitAppConfiguration()
	return
}

func initPostgresConnection() (err error) {
	connectString := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		config.PgContactPoint,
		config.PgContactPort,
		config.PgUsername,
		config.PgPassword,
		config.PgDbName)
	db, err = gorm.Open("postgres", connectString)
	if err != nil {
		return
	}

	db.LogMode(true)
	db.SetLogger(logger)
	return
}

func initFirebase() error {
	if config.TestAuthMode {
		// local sessions only, no firebase project needed
		return nil
	}

	opt := option.WithCredentialsFile(config.FirebaseServiceAccount)
	firebaseConfig := &firebase.Config{ProjectID: config.GcpProjectID}

	firebaseApp, err := firebase.NewApp(context.Background(), firebaseConfig, opt)
	if err != nil {
		return err
	}

	firebaseClient, err = firebaseApp.Auth(context.Background())
	if err != nil {
		return errors.Wrap(err, "error getting Auth client")
	}
	genealogyFirebaseClient.FirebaseClient = firebaseClient

	return nil
}

func initMessaging() error {
	if !config.PublishChangeEvents {
		changePublisher = &messaging.Discard{}
		return nil
	}

	client, err := messaging.New(messaging.ClientOptions{
		ProjectID:      config.GcpProjectID,
		Topic:          config.PubsubTopic,
		CredentialPath: config.PubsubServiceAccount,
	})
	if err != nil {
		return errors.Wrap(err, "failed to init messaging client")
	}
	changePublisher = client
	return nil
}

func initApplicationGraph() error {
	g := inject.Graph{}
	g.Provide(
		&inject.Object{Value: config},
		&inject.Object{Value: personService},
		&inject.Object{Value: chartService},
		&inject.Object{Value: userService},
		&inject.Object{Value: authService},
		&inject.Object{Value: personHandlerFactory},
		&inject.Object{Value: chartHandlerFactory},
		&inject.Object{Value: userHandlerFactory},
		&inject.Object{Value: authHandlerFactory},
		&inject.Object{Value: db},
		&inject.Object{Value: stringGenerator},
		&inject.Object{Value: dbStore},
		&inject.Object{Value: changePublisher, Name: "changePublisher"},
		&inject.Object{Value: genealogyFirebaseClient},
		&inject.Object{Value: authenticator},
		&inject.Object{Value: logger},
	)
	if err := g.Populate(); err != nil {
		return errors.Wrap(err, "failed to populate")
	}
	return nil
}

func initSwagger() error {
	var err error
	swagger, err = ioutil.ReadFile(config.SwaggerFilePath)
	return err
}

func main() {
	if config.StartupMigration {
		applySqlSchemaMigrations(ctx)
	}
	startHttpServer(ctx)
}

func applySqlSchemaMigrations(ctx context.Context) {
	logger.Info(ctx, "applying sql schema migrations")
	migrationResult := migrations.Up(migrations.ApplyOptions{
		SourceURL: fmt.Sprintf("file://%s", config.SqlMigrationsSourceDir),
		DatabaseURL: migrations.PostgresURL(config.PgContactPoint, config.PgContactPort,
			config.PgDbName, config.PgUsername, config.PgPassword),
	})
	checkErrAndExit(migrationResult.Err)
	if !migrationResult.Changes {
		logger.Info(ctx, "no new migrations applied")
	}
}

func startHttpServer(ctx context.Context) {
	personOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(persons.EncodeError),
	}

	chartOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(chart.EncodeError),
	}

	userOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(users.EncodeError),
	}

	authOpts := []kithttp.ServerOption{
		kithttp.ServerErrorLogger(logger),
		kithttp.ServerErrorEncoder(authentication.EncodeError),
	}

	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.DB().Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(swagger)
	})

	if config.TestAuthMode {
		router.Handle("/auth/login", authHandlerFactory.Login(authOpts)).Methods(http.MethodPost)
		router.HandleFunc("/auth/success", authentication.ServeTestAuthSuccess)
	}

	apiRouterV1 := router.PathPrefix("/api/v1").Subrouter()

	apiRouterV1.Handle("/me", authenticator.Roles(userHandlerFactory.Me(userOpts), ROLE_ADMIN, ROLE_VIEWER, ROLE_SERVICE)).Methods(http.MethodGet)

	apiRouterV1.Handle("/persons", authenticator.Roles(personHandlerFactory.Add(personOpts), ROLE_ADMIN)).Methods(http.MethodPost)
	apiRouterV1.Handle("/persons", authenticator.Roles(personHandlerFactory.List(personOpts), ROLE_ADMIN, ROLE_VIEWER, ROLE_SERVICE)).Methods(http.MethodGet)
	apiRouterV1.Handle("/persons/{personId}", authenticator.Roles(personHandlerFactory.Get(personOpts), ROLE_ADMIN, ROLE_VIEWER, ROLE_SERVICE)).Methods(http.MethodGet)
	apiRouterV1.Handle("/persons/{personId}", authenticator.Roles(personHandlerFactory.Update(personOpts), ROLE_ADMIN)).Methods(http.MethodPatch)
	apiRouterV1.Handle("/persons/{personId}", authenticator.Roles(personHandlerFactory.Delete(personOpts), ROLE_ADMIN)).Methods(http.MethodDelete)

	apiRouterV1.Handle("/chart", authenticator.Roles(chartHandlerFactory.Get(chartOpts), ROLE_ADMIN, ROLE_VIEWER, ROLE_SERVICE)).Methods(http.MethodGet)

	apiRouterV1.Handle("/users", authenticator.Roles(userHandlerFactory.Add(userOpts), ROLE_ADMIN)).Methods(http.MethodPost)
	apiRouterV1.Handle("/users", authenticator.Roles(userHandlerFactory.List(userOpts), ROLE_ADMIN)).Methods(http.MethodGet)
	apiRouterV1.Handle("/users/{userId}", authenticator.Roles(userHandlerFactory.Get(userOpts), ROLE_ADMIN)).Methods(http.MethodGet)
	apiRouterV1.Handle("/users/{userId}", authenticator.Roles(userHandlerFactory.Update(userOpts), ROLE_ADMIN)).Methods(http.MethodPatch)
	apiRouterV1.Handle("/users/{userId}", authenticator.Roles(userHandlerFactory.Delete(userOpts), ROLE_ADMIN)).Methods(http.MethodDelete)

	checkErrAndExit(http.ListenAndServe("0.0.0.0:8080",
		logger.RequestLoggerMiddleware(
			authenticator.Middleware(router, []string{"/healthz", "/readyz", "/auth/login", "/auth/success", "/swagger.yaml"}),
		),
	))
}

func checkErrAndExit(err error) {
	if err == nil {
		return
	}
	fmt.Println(err.Error())
	os.Exit(1)
}
