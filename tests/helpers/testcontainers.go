// Test container stack: database, Authorizer and the socialnetwork service on one docker network.
// Used by the e2e tests and by the standalone cmd/testcontainers executable.
// Settings come from the environment, usually loaded from a .env file.

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/localnerve/socialnetwork/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	serviceImage   = "socialnetwork-test"
	serviceTag     = "latest"
	authzAlias     = "authorizer"
	debuggerPort   = "2345/tcp"
	readyAttempts  = 30
	readyRetryWait = time.Second
)

// TestContainers holds the running database, authorizer and service containers.
// BaseURL and AuthzURL are the host-mapped endpoints for test clients.
type TestContainers struct {
	BaseURL                 string
	AuthzURL                string
	Network                 *testcontainers.DockerNetwork
	DBContainer             testcontainers.Container
	AuthorizerContainer     testcontainers.Container
	ServiceContainer        testcontainers.Container
	ServiceBuilderContainer testcontainers.Container
}

// stackEnv is the environment the stack is configured from
type stackEnv struct {
	dbType        string
	dbImage       string
	dbAlias       string
	dbPort        string
	rootPassword  string
	appDatabase   string
	appUser       string
	appPassword   string
	authzImage    string
	authzPort     string
	authzDatabase string
	authzClientID string
	authzSecret   string
	servicePort   string
	buildContext  string
	debug         bool
}

func loadStackEnv() stackEnv {
	env := stackEnv{
		dbType:        os.Getenv("DB_TYPE"),
		dbImage:       os.Getenv("DB_IMAGE"),
		dbAlias:       os.Getenv("DB_HOST"),
		dbPort:        os.Getenv("DB_PORT"),
		rootPassword:  os.Getenv("DB_ROOT_PASSWORD"),
		appDatabase:   os.Getenv("DB_APP_DATABASE"),
		appUser:       os.Getenv("DB_APP_USER"),
		appPassword:   os.Getenv("DB_APP_PASSWORD"),
		authzImage:    os.Getenv("AUTHZ_IMAGE"),
		authzPort:     os.Getenv("AUTHZ_PORT"),
		authzDatabase: os.Getenv("AUTHZ_DATABASE"),
		authzClientID: os.Getenv("AUTHZ_CLIENT_ID"),
		authzSecret:   os.Getenv("AUTHZ_ADMIN_SECRET"),
		servicePort:   os.Getenv("PORT"),
		buildContext:  os.Getenv("TESTCONTAINERS_BUILD_CONTEXT"),
		debug:         os.Getenv("DEBUG_CONTAINER") == "true",
	}
	if env.buildContext == "" {
		env.buildContext = "../.."
	}
	return env
}

// Terminate stops the containers in reverse start order and removes the network
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	containers := []struct {
		name      string
		container testcontainers.Container
	}{
		{"service", tc.ServiceContainer},
		{"service builder", tc.ServiceBuilderContainer},
		{"Authorizer", tc.AuthorizerContainer},
		{"database", tc.DBContainer},
	}
	for _, c := range containers {
		if c.container == nil {
			continue
		}
		if err := c.container.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", c.name, err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateAllTestContainers starts the whole stack. Without a *testing.T, failures
// exit the process after tearing down what was started.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	env := loadStackEnv()
	tc := &TestContainers{}

	fail := func(err error, msg string) (*TestContainers, error) {
		tc.Terminate(t)
		exitWithError(t, err, msg)
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	nw, err := network.New(ctx)
	if err != nil {
		return fail(err, "Failed to create network")
	}
	tc.Network = nw

	if err := tc.startDatabase(ctx, env); err != nil {
		return fail(err, "Failed to start database")
	}
	if err := tc.startAuthorizer(ctx, env); err != nil {
		return fail(err, "Failed to start Authorizer")
	}
	logMessage(t, "AUTHZ_URL=%s", tc.AuthzURL)

	if err := tc.startService(ctx, t, env); err != nil {
		return fail(err, "Failed to start service")
	}
	logMessage(t, "BASE_URL=%s", tc.BaseURL)

	logMessage(t, "socialnetwork testcontainers started successfully")
	return tc, nil
}

func (tc *TestContainers) startDatabase(ctx context.Context, env stackEnv) error {
	port, err := nat.NewPort("tcp", env.dbPort)
	if err != nil {
		return fmt.Errorf("bad DB_PORT: %w", err)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          env.dbImage,
			ExposedPorts:   []string{string(port)},
			Env:            databaseImageEnv(env),
			WaitingFor:     wait.ForListeningPort(port).WithStartupTimeout(60 * time.Second),
			Networks:       []string{tc.Network.Name},
			NetworkAliases: map[string][]string{tc.Network.Name: {env.dbAlias}},
		},
		Started: true,
	})
	if err != nil {
		return err
	}
	tc.DBContainer = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		return err
	}
	mapped, err := dbContainer.MappedPort(ctx, port)
	if err != nil {
		return err
	}

	switch env.dbType {
	case "postgres":
		return initPostgres(ctx, env, host, mapped.Port())
	case "mysql", "mariadb":
		return initMariaDB(ctx, env, host, mapped.Port())
	}
	return fmt.Errorf("unsupported DB_TYPE %q for test containers", env.dbType)
}

// databaseImageEnv maps the stack settings onto the official image variables
func databaseImageEnv(env stackEnv) map[string]string {
	if env.dbType == "postgres" {
		return map[string]string{
			"POSTGRES_PASSWORD": env.appPassword,
			"POSTGRES_USER":     env.appUser,
			"POSTGRES_DB":       env.appDatabase,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": env.rootPassword,
		"MYSQL_DATABASE":      env.appDatabase,
		"MYSQL_USER":          env.appUser,
		"MYSQL_PASSWORD":      env.appPassword,
	}
}

// authorizerDatabaseURL is how the Authorizer container reaches its database on the network
func authorizerDatabaseURL(env stackEnv) string {
	if env.dbType == "postgres" {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			env.appUser, env.appPassword, env.dbAlias, env.dbPort, env.authzDatabase)
	}
	return fmt.Sprintf("root:%s@tcp(%s:%s)/%s", env.rootPassword, env.dbAlias, env.dbPort, env.authzDatabase)
}

func (tc *TestContainers) startAuthorizer(ctx context.Context, env stackEnv) error {
	port, err := nat.NewPort("tcp", env.authzPort)
	if err != nil {
		return fmt.Errorf("bad AUTHZ_PORT: %w", err)
	}

	logLevel := "info"
	if env.debug {
		logLevel = "debug"
	}

	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        env.authzImage,
			ExposedPorts: []string{string(port)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     env.authzClientID,
				"PORT":          env.authzPort,
				"DATABASE_TYPE": env.dbType,
				"DATABASE_NAME": env.authzDatabase,
				"DATABASE_URL":  authorizerDatabaseURL(env),
				"ADMIN_SECRET":  env.authzSecret,
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     logLevel,
			},
			WaitingFor:     wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(10 * time.Second),
			Networks:       []string{tc.Network.Name},
			NetworkAliases: map[string][]string{tc.Network.Name: {authzAlias}},
		},
		Started: true,
	})
	if err != nil {
		return err
	}
	tc.AuthorizerContainer = authorizerContainer

	tc.AuthzURL, err = mappedURL(ctx, authorizerContainer, port)
	return err
}

func (tc *TestContainers) startService(ctx context.Context, t *testing.T, env stackEnv) error {
	port, err := nat.NewPort("tcp", env.servicePort)
	if err != nil {
		return fmt.Errorf("bad PORT: %w", err)
	}

	request := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"DB_TYPE":                 env.dbType,
			"DB_HOST":                 env.dbAlias,
			"DB_PORT":                 env.dbPort,
			"DB_APP_DATABASE":         env.appDatabase,
			"DB_APP_USER":             env.appUser,
			"DB_APP_PASSWORD":         env.appPassword,
			"DB_APP_CONNECTION_LIMIT": os.Getenv("DB_APP_CONNECTION_LIMIT"),
			"BAG_FETCH_CONCURRENT":    os.Getenv("BAG_FETCH_CONCURRENT"),
			"APP_NAME":                os.Getenv("APP_NAME"),
			"LOG_LEVEL":               os.Getenv("LOG_LEVEL"),
			"AUTHZ_URL":               fmt.Sprintf("http://%s:%s", authzAlias, env.authzPort),
			"AUTHZ_CLIENT_ID":         env.authzClientID,
			"PORT":                    env.servicePort,
		},
		WaitingFor: wait.ForHTTP("/metrics").WithPort(port).WithStartupTimeout(30 * time.Second),
		Networks:   []string{tc.Network.Name},
	}

	if env.debug {
		request.ExposedPorts = append(request.ExposedPorts, debuggerPort)
		request.HostConfigModifier = func(hostConfig *container.HostConfig) {
			hostConfig.PortBindings = nat.PortMap{
				debuggerPort: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: "2345"}},
			}
			hostConfig.CapAdd = []string{"SYS_PTRACE"}
			hostConfig.SecurityOpt = []string{"apparmor:unconfined"}
		}
		request.WaitingFor = wait.ForLog("API server listening at: [::]:2345").WithStartupTimeout(5 * time.Minute)
		request.Entrypoint = []string{
			"/usr/local/bin/dlv", "--listen=:2345", "--headless=true", "--api-version=2",
			"--accept-multiclient", "exec", "./socialnetwork",
		}
	}

	imageName := serviceImage + ":" + serviceTag
	exists, err := imageExists(ctx, imageName)
	if err != nil {
		return fmt.Errorf("failed to check image %s: %w", imageName, err)
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", imageName)
		request.Image = imageName
	} else {
		logMessage(t, "Image %s does not exist, building...", imageName)
		if err := tc.buildService(ctx, env, &request); err != nil {
			return err
		}
	}

	serviceContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	if err != nil {
		return err
	}
	tc.ServiceContainer = serviceContainer

	tc.BaseURL, err = mappedURL(ctx, serviceContainer, port)
	return err
}

// buildService builds the builder stage, then points request at the runtime stage
// so the image is kept for later runs.
func (tc *TestContainers) buildService(ctx context.Context, env stackEnv, request *testcontainers.ContainerRequest) error {
	sessionID := uuid.New().String()
	buildArgs := map[string]*string{
		"RESOURCE_REAPER_SESSION_ID": &sessionID,
	}
	if env.debug {
		debug := "true"
		buildArgs["DEBUG"] = &debug
	}

	dockerfile := func(repo, tag, target string, keep bool) testcontainers.FromDockerfile {
		return testcontainers.FromDockerfile{
			Context:    env.buildContext,
			Dockerfile: "Dockerfile",
			Repo:       repo,
			Tag:        tag,
			KeepImage:  keep,
			BuildArgs:  buildArgs,
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = target
			},
			PrintBuildLog: true,
		}
	}

	builder, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: dockerfile(serviceImage+"-builder", serviceTag, "builder", false),
		},
		Started: false,
	})
	if err != nil {
		return fmt.Errorf("failed to build %s-builder: %w", serviceImage, err)
	}
	tc.ServiceBuilderContainer = builder

	request.FromDockerfile = dockerfile(serviceImage, serviceTag, "runtime", true)
	return nil
}

func mappedURL(ctx context.Context, c testcontainers.Container, port nat.Port) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("http://%s:%s", host, mapped.Port()), nil
}

// waitReady pings db until it answers or the attempts run out
func waitReady(ctx context.Context, db *sql.DB) error {
	var err error
	for i := 0; i < readyAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		time.Sleep(readyRetryWait)
	}
	return fmt.Errorf("database not ready after %d attempts: %w", readyAttempts, err)
}

// initMariaDB creates the app and Authorizer databases, the app user, then applies
// the embedded schema and grants on one pinned connection.
func initMariaDB(ctx context.Context, env stackEnv, host, port string) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", env.rootPassword, host, port))
	if err != nil {
		return fmt.Errorf("failed to open MariaDB for setup: %w", err)
	}
	defer db.Close()

	if err := waitReady(ctx, db); err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	setup := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", env.appDatabase),
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", env.authzDatabase),
		fmt.Sprintf("CREATE USER IF NOT EXISTS '%s'@'%%' IDENTIFIED BY '%s'", env.appUser, env.appPassword),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.authorizer_users (id CHAR(36) NOT NULL PRIMARY KEY)", env.authzDatabase),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON *.* TO 'root'@'%%' IDENTIFIED BY '%s' WITH GRANT OPTION", env.rootPassword),
		"FLUSH PRIVILEGES",
		fmt.Sprintf("USE %s", env.appDatabase),
	}
	for _, statement := range setup {
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, statement)
		}
	}

	if err := executeSQL(ctx, conn, data.InitdbMariaDBTables); err != nil {
		return fmt.Errorf("tables init failed: %w", err)
	}
	if err := executeSQL(ctx, conn, data.InitdbMariaDBPrivileges); err != nil {
		return fmt.Errorf("privileges init failed: %w", err)
	}
	return nil
}

// initPostgres creates the Authorizer database. The app database and user come from
// the image env, and the service creates its own tables on startup.
func initPostgres(ctx context.Context, env stackEnv, host, port string) error {
	db, err := sql.Open("pgx", fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		env.appUser, env.appPassword, host, port, env.appDatabase))
	if err != nil {
		return fmt.Errorf("failed to open Postgres for setup: %w", err)
	}
	defer db.Close()

	if err := waitReady(ctx, db); err != nil {
		return err
	}

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", env.authzDatabase).Scan(&exists); err != nil {
		return fmt.Errorf("failed to look up database %s: %w", env.authzDatabase, err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE %s", env.authzDatabase)); err != nil {
		return fmt.Errorf("failed to create %s: %w", env.authzDatabase, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// executeSQL runs each ';' terminated statement of script, with ${VAR} references
// expanded from the environment.
func executeSQL(ctx context.Context, db execer, script string) error {
	for _, statement := range splitStatements(os.ExpandEnv(script)) {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("%w : when executing > %s", err, statement)
		}
	}
	return nil
}

// splitStatements strips "--" comments and returns the non-empty statements of script
func splitStatements(script string) []string {
	lines := strings.Split(script, "\n")
	for i, line := range lines {
		lines[i] = stripComment(line)
	}

	var statements []string
	for _, statement := range strings.Split(strings.Join(lines, "\n"), ";") {
		if statement = strings.TrimSpace(statement); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// stripComment drops a trailing "--" comment, ignoring dashes inside quotes
func stripComment(line string) string {
	var quote rune
	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '-' && strings.HasPrefix(line[i:], "--"):
			return line[:i]
		}
	}
	return line
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", imageName)),
	})
	if err != nil {
		return false, err
	}
	return len(images) > 0, nil
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
