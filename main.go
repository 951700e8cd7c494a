// Package main provides the entry point for the baristahub backend: the REST and
// GraphQL API for barista accounts and applications, and the terminal login client.
package main

import (
	"os"

	"github.com/baristahub/baristahub-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
