// Package main provides admin management utilities for inkwell.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"inkwell/internal/bootstrap"
	"inkwell/internal/config"
)

const usage = `Usage:
  admin create-group <slug> <title> [description]  - Create a group
  admin delete-group <slug>                        - Delete a group, keeping its posts ungrouped
  admin delete-post <id>                           - Delete a post and its comments
  admin delete-user <username>                     - Delete a user with their posts, comments and follows
  admin clear-cache                                - Clear the page cache
  admin promote <username>                         - Promote user to admin
  admin demote <username>                          - Demote user from admin
  admin list-admins                                - List all admins`

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer rt.Close()

	cli := newCLI(cfg, rt, os.Stdout)
	if err := cli.run(ctx, os.Args[1:]); err != nil {
		rt.Close()
		if errors.Is(err, errUsage) {
			fmt.Println(usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
