package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	file := flag.String("file", ".auth/admin_token", "Output path for the admin token")
	size := flag.Int("bytes", 32, "Token size in random bytes")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*file), 0o700); err != nil {
		exitErr(fmt.Errorf("failed to create dir: %w", err))
	}

	raw := make([]byte, *size)
	if _, err := rand.Read(raw); err != nil {
		exitErr(fmt.Errorf("failed to generate token: %w", err))
	}

	token := hex.EncodeToString(raw)
	if err := os.WriteFile(*file, []byte(token+"\n"), 0o600); err != nil {
		exitErr(fmt.Errorf("failed to write %s: %w", *file, err))
	}

	fmt.Printf("Wrote %s\n", *file)
	fmt.Printf("Start the server with --server.admin.auth_token_file=%s\n", *file)
}

func exitErr(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}
