//go:build ignore
// +build ignore

// Manual concurrency stress tool for the rental API.
//
// Usage:
//
//	go run ./scripts/rental_stress.go <book_id> <reader1_id> [reader2_id ...]
//
// Or with environment variables:
//
//	BOOK_ID=1 READER_IDS=1,2,3 go run ./scripts/rental_stress.go
//
// What it does:
//  1. Fires N goroutines (one per reader) all renting the same book simultaneously.
//  2. Prints how many rents succeeded vs. were rejected for lack of copies.
//  3. Fetches the book afterwards so available_copies can be eyeballed against the
//     number of successes: successes must never exceed the copies that existed.
//
// Prerequisites: server running, DATABASE_URL set, the book and readers seeded.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

const defaultServerAddr = "http://localhost:8080"

type rentResult struct {
	ReaderID   string
	StatusCode int
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	bookID := os.Getenv("BOOK_ID")
	var readerIDs []string
	if env := os.Getenv("READER_IDS"); env != "" {
		readerIDs = strings.Split(env, ",")
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		readerIDs = args[1:]
	}

	if bookID == "" || len(readerIDs) == 0 {
		log.Fatal("Usage: BOOK_ID=<id> READER_IDS=<r1,r2,...> go run ./scripts/rental_stress.go\n" +
			"  or: go run ./scripts/rental_stress.go <book_id> <reader1_id> [reader2_id ...]")
	}

	results := make([]rentResult, len(readerIDs))
	var wg sync.WaitGroup
	for i, readerID := range readerIDs {
		wg.Add(1)
		go func(i int, readerID string) {
			defer wg.Done()
			results[i] = rentOnce(serverAddr, bookID, readerID)
		}(i, readerID)
	}
	wg.Wait()

	var succeeded, rejected, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Printf("reader %s: request error: %v\n", res.ReaderID, res.Err)
		case res.StatusCode == http.StatusCreated:
			succeeded++
		case res.StatusCode == http.StatusConflict:
			rejected++
		default:
			failed++
			fmt.Printf("reader %s: unexpected status %d\n", res.ReaderID, res.StatusCode)
		}
	}

	fmt.Printf("\n%d rents succeeded, %d rejected (no copies), %d failed\n", succeeded, rejected, failed)
	printBook(serverAddr, bookID)
}

func rentOnce(serverAddr, bookID, readerID string) rentResult {
	payload := fmt.Sprintf(`{"book_id":%s,"reader_id":%s,"rental_days":7}`, bookID, readerID)
	resp, err := http.Post(serverAddr+"/api/rentals", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		return rentResult{ReaderID: readerID, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return rentResult{ReaderID: readerID, StatusCode: resp.StatusCode}
}

func printBook(serverAddr, bookID string) {
	resp, err := http.Get(serverAddr + "/api/books/" + bookID)
	if err != nil {
		log.Printf("failed to fetch book: %v", err)
		return
	}
	defer resp.Body.Close()

	var book map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&book); err != nil {
		log.Printf("failed to decode book: %v", err)
		return
	}
	fmt.Printf("book %v: available_copies=%v total_copies=%v\n", book["id"], book["available_copies"], book["total_copies"])
}
