package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/musehabit/muse/persistent"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"

	"github.com/musehabit/muse/pgdb"
)

// Boots a throwaway postgres container, applies the schema, exports the
// datasource through the environment and runs the test suite against it.
// Usage: go run ./testenv [package path relative to the repo root].
func main() {
	flag.Parse()

	logrus.Println("Starting postgres container.")
	stop, err := startPostgres()
	if err != nil {
		logrus.WithError(err).Fatalln("Could not start test database.")
	}

	path := "./../..."
	if flag.NArg() > 0 {
		path = "./../" + flag.Arg(0)
	}
	logrus.WithField("path", path).Println("Running tests.")
	runTests(path)

	logrus.Println("Tests done, removing container.")
	stop()
}

func runTests(path string) {
	cmd := exec.Command("go", "test", path)
	cmd.Env = os.Environ()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		logrus.WithError(err).Errorln("Test run failed.")
	}
}

// startPostgres runs a postgres container with a random password and waits
// until it accepts connections. The returned func purges the container.
func startPostgres() (func(), error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("password generate: %w", err)
	}
	password := hex.EncodeToString(raw)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("docker connect: %w", err)
	}

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14.1",
		Env:        []string{"POSTGRES_PASSWORD=" + password},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("container start: %w", err)
	}
	// Dockertest leaks containers when the process dies mid-run; the expiry
	// makes docker clean up after us.
	container.Expire(60)
	stop := func() {
		if err := pool.Purge(container); err != nil {
			logrus.WithError(err).Warningln("Could not purge container.")
		}
	}

	dsn := fmt.Sprintf("postgresql://postgres:%s@localhost:%s/postgres?sslmode=disable",
		password, container.GetPort("5432/tcp"))
	pool.MaxWait = 10 * time.Second
	err = pool.Retry(func() error {
		conn, err := sql.Open("pg", dsn)
		if err != nil {
			return fmt.Errorf("sql open: %w", err)
		}
		defer conn.Close()
		if err := conn.Ping(); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		db := bun.NewDB(conn, pgdialect.New())
		defer db.Close()
		return createSchema(context.Background(), db)
	})
	if err != nil {
		stop()
		return nil, fmt.Errorf("database connect: %w", err)
	}

	pgdb.SetTestEnvDsn(dsn)
	return stop, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*persistent.User)(nil),
		(*persistent.Interest)(nil),
		(*persistent.UserInterest)(nil),
		(*persistent.Exercise)(nil),
		(*persistent.UserExercise)(nil),
		(*persistent.Post)(nil),
		(*persistent.Library)(nil),
		(*persistent.Comment)(nil),
		(*persistent.SavedPost)(nil),
		(*persistent.SavedLibrary)(nil),
	}
	for _, model := range models {
		logrus.WithField("model", fmt.Sprintf("%T", model)).Debugln("Creating table.")
		if _, err := db.NewCreateTable().IfNotExists().Model(model).Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	return nil
}
