// seed_todos.go — standalone script to parse a markdown TODO list and seed todos via the prioritizer API.
//
// Usage:
//
//	go run scripts/seed_todos.go -file /path/to/TODO.md -api http://localhost:8080
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
)

type todoItem struct {
	Title           string   `json:"title"`
	Tags            []string `json:"tags,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	DueDate         string   `json:"due_date,omitempty"`
}

var (
	// #hashtag style tags, e.g. "fix login page #work #bug"
	tagPattern = regexp.MustCompile(`#([a-zA-Z0-9_-]+)`)
	// trailing due date, e.g. "due:2026-09-01"
	duePattern = regexp.MustCompile(`\bdue:(\d{4}-\d{2}-\d{2})\b`)
	// trailing estimate, e.g. "est:45m"
	estPattern = regexp.MustCompile(`\best:(\d+)m\b`)
)

func main() {
	filePath := flag.String("file", "TODO.md", "path to markdown TODO file")
	apiURL := flag.String("api", "http://localhost:8080", "prioritizer API base URL")
	dryRun := flag.Bool("dry-run", false, "print items without posting")
	flag.Parse()

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open %s: %v", *filePath, err)
	}
	defer f.Close()

	var items []todoItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		item, ok := parseLine(scanner.Text())
		if ok {
			items = append(items, item)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("scan %s: %v", *filePath, err)
	}

	log.Printf("parsed %d items from %s", len(items), *filePath)

	if *dryRun {
		for i, item := range items {
			due := "none"
			if item.DueDate != "" {
				due = item.DueDate
			}
			fmt.Printf("[%d] %s (tags=%v, duration=%dm, due=%s)\n", i+1, item.Title, item.Tags, item.DurationMinutes, due)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, item := range items {
		body, _ := json.Marshal(item)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/todos", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", item.Title, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", item.Title, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", item.Title, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

// parseLine reads one "- [ ] ..." checkbox line. Completed items are
// skipped; the server owns completion state after seeding.
func parseLine(line string) (todoItem, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "- [ ] ") {
		return todoItem{}, false
	}
	text := strings.TrimPrefix(trimmed, "- [ ] ")

	var item todoItem

	if m := duePattern.FindStringSubmatch(text); m != nil {
		item.DueDate = m[1]
		text = strings.Replace(text, m[0], "", 1)
	}
	if m := estPattern.FindStringSubmatch(text); m != nil {
		fmt.Sscanf(m[1], "%d", &item.DurationMinutes)
		text = strings.Replace(text, m[0], "", 1)
	}
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		item.Tags = append(item.Tags, strings.ToLower(m[1]))
	}
	text = tagPattern.ReplaceAllString(text, "")

	item.Title = strings.Join(strings.Fields(text), " ")
	if item.Title == "" {
		return todoItem{}, false
	}
	return item, true
}
