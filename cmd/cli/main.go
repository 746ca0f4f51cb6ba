package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"epaperhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

func main() {
	global := flag.NewFlagSet("epaperhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 30 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "editions":
		handleEditions(ctx, client, *baseURL, sub, args[2:])
	case "favorites":
		handleFavorites(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "read":
		handleRead(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "archive":
		handleArchive(ctx, client, *baseURL, sub, args[2:])
	case "admin":
		handleAdmin(ctx, client, *baseURL, *tokenPath, sub)
	case "watch":
		handleWatch(*baseURL, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		payload := map[string]string{"username": *username, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		payload := map[string]string{"username": *username, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ registered and logged in")
	case "logout":
		if err := clearToken(tokenPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: epaperhub auth <login|register|logout>")
	}
}

func handleEditions(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		var resp []models.Edition
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/editions", "", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		for _, ed := range resp {
			fmt.Printf("%-14s %4d  %s\n", ed.Source, ed.EditionID, ed.EditionName)
		}
	case "pages":
		fs := flag.NewFlagSet("editions pages", flag.ExitOnError)
		name := fs.String("name", "", "edition name as shown by 'editions list'")
		id := fs.Int("id", 0, "edition id")
		_ = fs.Parse(args)
		if *name == "" || *id <= 0 {
			log.Fatal("name and id are required")
		}

		endpoint := baseURL + "/edition/" + url.PathEscape(*name) + "/" + strconv.Itoa(*id)
		var resp []models.RawPage
		if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
			log.Fatalf("pages failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: epaperhub editions <list|pages>")
	}
}

func handleFavorites(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("favorites add", flag.ExitOnError)
		source := fs.String("source", "", "publisher key")
		id := fs.Int("id", 0, "edition id")
		name := fs.String("name", "", "edition display name")
		_ = fs.Parse(args)
		if *source == "" || *id <= 0 {
			log.Fatal("source and id are required")
		}

		payload := map[string]any{
			"source":       *source,
			"edition_id":   *id,
			"edition_name": *name,
		}
		var resp models.Favorite
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/favorites", token, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("favorites remove", flag.ExitOnError)
		source := fs.String("source", "", "publisher key")
		id := fs.Int("id", 0, "edition id")
		_ = fs.Parse(args)
		if *source == "" || *id <= 0 {
			log.Fatal("source and id are required")
		}

		endpoint := baseURL + "/users/favorites/" + url.PathEscape(*source) + "/" + strconv.Itoa(*id)
		if err := doJSON(ctx, client, http.MethodDelete, endpoint, token, nil, nil); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		fmt.Println("✅ removed")
	case "list":
		var resp struct {
			Items []models.Favorite `json:"items"`
		}
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/favorites", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp.Items)
	default:
		log.Fatal("usage: epaperhub favorites <add|remove|list>")
	}
}

func handleRead(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	token := mustToken(tokenPath)
	switch sub {
	case "set":
		fs := flag.NewFlagSet("read set", flag.ExitOnError)
		source := fs.String("source", "", "publisher key")
		id := fs.Int("id", 0, "edition id")
		date := fs.String("date", "", "edition date (dd/mm/yyyy)")
		page := fs.Int("page", 0, "zero-based page index")
		_ = fs.Parse(args)
		if *source == "" || *id <= 0 {
			log.Fatal("source and id are required")
		}

		payload := map[string]any{
			"date":       *date,
			"page_index": *page,
		}
		endpoint := baseURL + "/users/read-state/" + url.PathEscape(*source) + "/" + strconv.Itoa(*id)
		var resp models.ReadState
		if err := doJSON(ctx, client, http.MethodPut, endpoint, token, payload, &resp); err != nil {
			log.Fatalf("set failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("read show", flag.ExitOnError)
		source := fs.String("source", "", "publisher key")
		id := fs.Int("id", 0, "edition id")
		_ = fs.Parse(args)
		if *source == "" || *id <= 0 {
			log.Fatal("source and id are required")
		}

		endpoint := baseURL + "/users/read-state/" + url.PathEscape(*source) + "/" + strconv.Itoa(*id)
		var resp models.ReadState
		if err := doJSON(ctx, client, http.MethodGet, endpoint, token, nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "list":
		var resp struct {
			Items []models.ReadState `json:"items"`
		}
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/read-state", token, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp.Items)
	default:
		log.Fatal("usage: epaperhub read <set|show|list>")
	}
}

func handleArchive(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "dates":
		var resp struct {
			Dates []string `json:"dates"`
		}
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/archive", "", nil, &resp); err != nil {
			log.Fatalf("dates failed: %v", err)
		}
		for _, d := range resp.Dates {
			fmt.Println(d)
		}
	case "show":
		fs := flag.NewFlagSet("archive show", flag.ExitOnError)
		date := fs.String("date", "", "archived date key (dd-mm-yyyy)")
		_ = fs.Parse(args)
		if *date == "" {
			log.Fatal("date is required")
		}

		var resp []models.Edition
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/archive/"+url.PathEscape(*date), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: epaperhub archive <dates|show>")
	}
}

func handleAdmin(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string) {
	token := mustToken(tokenPath)
	switch sub {
	case "refresh":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/admin/refresh", token, nil, &resp); err != nil {
			log.Fatalf("refresh failed: %v", err)
		}
		printJSON(resp)
	case "clear-cache":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/admin/cache/clear", token, nil, &resp); err != nil {
			log.Fatalf("clear-cache failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: epaperhub admin <refresh|clear-cache>")
	}
}

func handleWatch(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("watch subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		for {
			if err := runWebSocket(endpoint); err != nil {
				log.Printf("[watch] disconnected: %v", err)
			}
			time.Sleep(2 * time.Second)
		}
	default:
		log.Fatal("usage: epaperhub watch subscribe")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "json":
		fs := flag.NewFlagSet("export json", flag.ExitOnError)
		out := fs.String("out", "data/editions.json", "output JSON path")
		_ = fs.Parse(args)

		var items []models.Edition
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/editions", "", nil, &items); err != nil {
			log.Fatalf("export json failed: %v", err)
		}
		if err := writeJSON(*out, items); err != nil {
			log.Fatalf("write json failed: %v", err)
		}
		log.Printf("✅ exported %d editions to %s", len(items), *out)
	default:
		log.Fatal("usage: epaperhub export json")
	}
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func writeJSON(path string, items []models.Edition) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.epaperhub-token.json"
	}
	return filepath.Join(home, ".epaperhub", "token.json")
}

func saveToken(path, token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(tokenData{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Token), nil
}

func mustToken(path string) string {
	token, err := readToken(path)
	if err != nil {
		log.Fatalf("token not found, please login: %v", err)
	}
	if token == "" {
		log.Fatal("token empty, please login")
	}
	return token
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("epaperhub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  editions list|pages")
	fmt.Println("  favorites add|remove|list")
	fmt.Println("  read set|show|list")
	fmt.Println("  archive dates|show")
	fmt.Println("  admin refresh|clear-cache")
	fmt.Println("  watch subscribe")
	fmt.Println("  export json")
}
