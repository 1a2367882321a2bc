package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/studyhub/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var withRedis bool
	flag.BoolVar(&withRedis, "redis", false, "also start a Redis snapshot cache")
	flag.Parse()

	usage := `
Run disposable studyhub backing services and print the environment that points at them.

Usage:

testcontainers [-h] [-redis] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to a .env file; DB_IMAGE overrides the MariaDB image

example
  testcontainers -redis -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx := context.Background()
	containers, err := testutil.StartContainers(ctx, os.Getenv("DB_IMAGE"), withRedis)
	if err != nil {
		log.Fatalf("Failed to create test containers: %v\n", err)
	}

	cfg := containers.Config()
	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword)
	if cfg.RedisURL != "" {
		fmt.Printf("REDIS_URL=%s\n", cfg.RedisURL)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigs
	log.Printf("\nReceived signal: %v, terminating test containers...\n", sig)
	if err := containers.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate containers: %v\n", err)
	}
}
