package main

import (
	"context"
	"flag"
	"log/syslog"
	"os"
	"os/signal"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/musehabit/muse"
	"github.com/musehabit/muse/blob"
	"github.com/musehabit/muse/persistent"
	"github.com/musehabit/muse/pgdb"
	"github.com/musehabit/muse/transport/rest"
	"github.com/sirupsen/logrus"
	logrusys "github.com/sirupsen/logrus/hooks/syslog"
	"github.com/tidwall/buntdb"
	"github.com/uptrace/bun"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func listenAndServe(
	ctx context.Context,
	bdb *buntdb.DB,
	db *bun.DB,
	presigner blob.Presigner,
	debug bool,
) func() error {
	userStore := &persistent.UserStore{DB: db}
	interestStore := &persistent.InterestStore{DB: db}
	exerciseStore := &persistent.ExerciseStore{DB: db}
	userExerciseStore := &persistent.UserExerciseStore{DB: db}
	postStore := &persistent.PostStore{DB: db}
	libraryStore := &persistent.LibraryStore{DB: db}
	commentStore := &persistent.CommentStore{DB: db}
	savedPostStore := &persistent.SavedPostStore{DB: db}
	savedLibraryStore := &persistent.SavedLibraryStore{DB: db}
	sessionStore := &persistent.SessionStore{Buntdb: bdb}
	sessionStore.CreateIndexes()

	streakEngine := &muse.StreakEngine{
		Users:     userStore,
		Exercises: userExerciseStore,
	}
	statisticsService := &muse.StatisticsService{
		Users:          userStore,
		Exercises:      userExerciseStore,
		SavedPosts:     savedPostStore,
		SavedLibraries: savedLibraryStore,
		Streak:         streakEngine,
	}

	authController := rest.AuthController{
		SessionStore: sessionStore,
		UserStore:    userStore,
		Interests:    interestStore,
	}
	sessionController := rest.SessionController{Sessions: sessionStore}
	userController := rest.UserController{
		Users:     userStore,
		Interests: interestStore,
		Posts:     postStore,
		Exercises: userExerciseStore,
		Streak:    streakEngine,
		Stats:     statisticsService,
		Presigner: presigner,
	}
	postController := rest.PostController{
		Posts:     postStore,
		Toggle:    &muse.SavedItemToggle{Relations: savedPostStore},
		Presigner: presigner,
	}
	libraryController := rest.LibraryController{
		Libraries: libraryStore,
		Toggle:    &muse.SavedItemToggle{Relations: savedLibraryStore},
		Presigner: presigner,
	}
	exerciseController := rest.ExerciseController{
		Exercises:   exerciseStore,
		Completions: userExerciseStore,
		Streak:      streakEngine,
	}
	commentController := rest.CommentController{
		Comments:  commentStore,
		Posts:     postStore,
		Presigner: presigner,
	}
	presignedController := rest.PresignedController{Presigner: presigner}

	server := fiber.New()
	server.Use(rest.LogHandler())

	api := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: rest.ErrorHandler,
	})

	allowOrigins := "https://musehabit.app"
	if debug {
		allowOrigins += ", http://localhost:3000"
	}
	api.Use(cors.New(cors.Config{AllowOrigins: allowOrigins}))

	requestAuthorizer := rest.RequestAuthorizer(sessionStore, userStore)
	api.Get("/status", monitor.New())
	authController.InstallTo(requestAuthorizer, api)
	sessionController.InstallTo(requestAuthorizer, api)
	userController.InstallTo(requestAuthorizer, api)
	postController.InstallTo(requestAuthorizer, api)
	libraryController.InstallTo(requestAuthorizer, api)
	exerciseController.InstallTo(requestAuthorizer, api)
	commentController.InstallTo(requestAuthorizer, api)
	presignedController.InstallTo(requestAuthorizer, api)

	server.Mount("/api/", api)
	server.Use(rest.NotFoundHandler)

	var addr string
	if debug {
		addr = "127.0.0.1:4100"
	} else {
		addr = ":4100"
	}
	go server.Listen(addr)

	return func() error {
		return server.Shutdown()
	}
}

func setupLogger(verbose bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: time.Stamp,
		FullTimestamp:   true,
	})
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	syslogHook, err := logrusys.NewSyslogHook("", "", syslog.LOG_USER, "muse_backend")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not create syslog hook.")
		return
	}
	logrus.AddHook(syslogHook)
}

func presignerFromEnv() *blob.TokenPresigner {
	requireEnv := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			logrus.Fatalln("Environment variable " + key + " is required.")
		}
		return value
	}
	return &blob.TokenPresigner{
		BaseUrl: requireEnv("BLOB_BASE_URL"),
		Secret:  []byte(requireEnv("BLOB_SECRET")),
		TTL:     15 * time.Minute,
	}
}

func awaitInterruption() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
}

func main() {
	flag.Parse()
	debug := os.Getenv("DEBUG") == "true"
	setupLogger(debug)
	logrus.Infoln("Starting muse backend.")

	pgDsn := os.Getenv("POSTGRES_DSN")
	if pgDsn == "" {
		logrus.Fatalln("Environment variable POSTGRES_DSN is required.")
	}

	bdb, err := buntdb.Open("kv.db")
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open buntdb.")
	}
	defer bdb.Close()

	logrus.Infoln("Connecting to postgres.")
	db := pgdb.Open(context.Background(), pgDsn)
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	defer db.DB.Close()
	defer db.Close()

	presigner := presignerFromEnv()

	logrus.Infoln("Listening. Interrupt to shut down.")
	shutdown := listenAndServe(context.Background(), bdb, db, presigner, debug)

	awaitInterruption()

	logrus.Infoln("Shutting down...")
	err = shutdown()
	if err != nil {
		logrus.WithError(err).Warningln("Fiber shutdown failed.")
	}
	logrus.Exit(0)
}
