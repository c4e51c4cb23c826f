package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"opsalert/internal/auth"
)

const usage = `usage: opsalert-admin <command> [flags]

commands:
  hash-key      print the bcrypt hash for OPSALERT_INGEST_KEY_HASH
  issue-token   print a bearer token for the incidents read API
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "hash-key":
		err = hashKey(os.Args[2:])
	case "issue-token":
		err = issueToken(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "opsalert-admin %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func hashKey(args []string) error {
	fs := pflag.NewFlagSet("hash-key", pflag.ContinueOnError)
	key := fs.String("key", "", "ingest API key to hash")
	if err := fs.Parse(args); err != nil {
		return err
	}
	hash, err := auth.HashKey(*key)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func issueToken(args []string) error {
	fs := pflag.NewFlagSet("issue-token", pflag.ContinueOnError)
	subject := fs.String("subject", "", "token subject (who the token is for)")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	secret := os.Getenv("OPSALERT_JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("OPSALERT_JWT_SECRET is not set")
	}
	tok, err := auth.NewService(secret).IssueToken(*subject, *ttl)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
