package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/lk2023060901/jsonext-go/application"
)

func main() {
	if err := application.New().Run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "jsonext:", err)
		os.Exit(1)
	}
}
