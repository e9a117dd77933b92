package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/z-shelf/backend/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	defaultBase := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	base := flag.String("base", defaultBase, "catalog service base URL")
	op := flag.String("op", "list", "operation: list, get, create, update or delete")
	id := flag.String("id", "", "book_id for get, update and delete")
	data := flag.String("data", "", "JSON body for create and update")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")

	flag.Parse()

	method, path, body, err := buildRequest(*op, *id, *data)
	if err != nil {
		flag.Usage()
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, payload, err := send(ctx, strings.TrimRight(*base, "/")+path, method, body)
	if err != nil {
		log.Fatalf("%s %s failed: %v", method, path, err)
	}

	log.Printf("%s %s -> %d", method, path, status)
	fmt.Println(payload)
}

// buildRequest maps an operation name onto the HTTP method, path and body.
func buildRequest(op, id, data string) (string, string, []byte, error) {
	needsID := op == "get" || op == "update" || op == "delete"
	if needsID && id == "" {
		return "", "", nil, fmt.Errorf("-id is required for %s", op)
	}
	if (op == "create" || op == "update") && data != "" && !json.Valid([]byte(data)) {
		return "", "", nil, fmt.Errorf("-data is not valid JSON")
	}

	path := "/books"
	if needsID {
		path += "/" + url.PathEscape(id)
	}

	switch op {
	case "list", "get":
		return http.MethodGet, path, nil, nil
	case "create":
		return http.MethodPost, path, []byte(data), nil
	case "update":
		return http.MethodPut, path, []byte(data), nil
	case "delete":
		return http.MethodDelete, path, nil, nil
	default:
		return "", "", nil, fmt.Errorf("unknown operation %q", op)
	}
}

func send(ctx context.Context, target, method string, body []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return resp.StatusCode, string(raw), nil
	}
	return resp.StatusCode, pretty.String(), nil
}
