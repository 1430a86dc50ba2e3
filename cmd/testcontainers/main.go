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
	"github.com/localnerve/socialnetwork/tests/helpers"
)

const usage = `
Start the socialnetwork stack (database, authorizer, service) in test containers,
configured from the environment variables in the .env file. Ctrl-C tears it down.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-o OUTPUT_ENV_PATH]

ENV_FILE_PATH:    .env file to configure the stack from
OUTPUT_ENV_PATH:  file to receive BASE_URL and AUTHZ_URL once the stack is up

example
  testcontainers -f /path/to/something/.env -o /tmp/stack.env
`

func main() {
	var (
		showHelp    bool
		envFilename string
		outFilename string
	)
	flag.BoolVar(&showHelp, "h", false, "show help")
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.StringVar(&outFilename, "o", "", "write the stack URLs to this file")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	started := make(chan *helpers.TestContainers, 1)
	go func() {
		tc, err := helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to create test containers: %v\n", err)
		}
		started <- tc
	}()

	var tc *helpers.TestContainers
	select {
	case tc = <-started:
		log.Printf("Service ready at %s\n", tc.BaseURL)
		if outFilename != "" {
			if err := writeStackEnv(outFilename, tc); err != nil {
				log.Printf("Failed to write %s: %v\n", outFilename, err)
			}
		}
		<-ctx.Done()
	case <-ctx.Done():
		log.Printf("Interrupted while starting, waiting to tear down...\n")
		tc = <-started
	}

	log.Printf("Terminating test containers...\n")
	tc.Terminate(nil)
	if outFilename != "" {
		_ = os.Remove(outFilename)
	}
}

func writeStackEnv(filename string, tc *helpers.TestContainers) error {
	return godotenv.Write(map[string]string{
		"BASE_URL":  tc.BaseURL,
		"AUTHZ_URL": tc.AuthzURL,
	}, filename)
}
