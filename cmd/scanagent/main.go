package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"resellscan/internal/dto"
	"resellscan/internal/scanner"
	"resellscan/internal/session"
	"resellscan/pkg/config"
	"resellscan/pkg/logger"

	"go.uber.org/zap"
)

const requestTimeout = 10 * time.Second

// scanagent is the terminal scanning client. It logs in, claims the
// single active session for the account, and resolves barcodes typed at
// the prompt (or fed by a wedge scanner on stdin) against the server.
func main() {
	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "account password")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: scanagent -email <email> -password <password>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	auth, err := login(cfg.Agent.APIBaseURL, *email, *password)
	if err != nil {
		appLogger.Fatal("Login failed", zap.Error(err))
	}
	token := func() string { return auth.AccessToken }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session guard: one active device per account. A takeover from
	// another device stops this one.
	conflict := make(chan struct{}, 1)
	local := session.NewFileState(cfg.Agent.StateFile)
	store := session.NewHTTPStore(cfg.Agent.APIBaseURL, token, requestTimeout)
	guard := session.NewGuard(store, local, cfg.Session.HeartbeatInterval, func() {
		select {
		case conflict <- struct{}{}:
		default:
		}
	}, appLogger)

	if err := guard.StartSession(ctx, auth.User.ID); err != nil {
		if err == session.ErrSessionConflict {
			fmt.Println("This account is already scanning on another device.")
			os.Exit(1)
		}
		appLogger.Fatal("Failed to start session", zap.Error(err))
	}
	defer guard.EndSession(context.Background(), auth.User.ID)

	resolver := scanner.NewHTTPResolver(cfg.Agent.APIBaseURL, token, requestTimeout, appLogger)
	ctrl := scanner.NewController(
		scanner.NewSimulatedSource(),
		nil,
		resolver,
		scanner.DefaultFallback(),
		&scanner.WriterChimer{W: os.Stdout},
		scanner.Config{
			PollInterval: cfg.Scanner.PollInterval,
			HistoryLimit: cfg.Scanner.HistoryLimit,
		},
		auth.User.Email,
		appLogger,
	)
	defer ctrl.Close()
	ctrl.SetMode(ctx, scanner.ModeManual)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	lines := readLines(os.Stdin)

	fmt.Printf("Signed in as %s. Scan or type a barcode; 'history' lists recent scans, 'quit' exits.\n", auth.User.Email)
	fmt.Print("> ")

	for {
		select {
		case <-quit:
			fmt.Println("\nBye.")
			return
		case <-conflict:
			fmt.Println("\nSession terminated: this account signed in on another device.")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch strings.TrimSpace(line) {
			case "":
			case "quit", "exit":
				fmt.Println("Bye.")
				return
			case "history":
				printHistory(ctrl)
			default:
				ctrl.Submit(ctx, line)
				printCurrent(ctrl)
			}
			fmt.Print("> ")
		}
	}
}

func login(baseURL, email, password string) (*dto.AuthResponse, error) {
	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(baseURL+"/user/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var auth dto.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func readLines(f *os.File) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			out <- sc.Text()
		}
	}()
	return out
}

func printCurrent(ctrl *scanner.Controller) {
	result := ctrl.Current()
	if result == nil {
		fmt.Println("No product found for that barcode.")
		return
	}
	fmt.Printf("%s (%s)\n", result.Title, result.ItemType)
	fmt.Printf("  price $%.2f  profit $%.2f  margin %s  -> %s\n",
		result.CurrentPrice, result.Profit, result.Margin, strings.ToUpper(string(result.Recommendation)))
}

func printHistory(ctrl *scanner.Controller) {
	items := ctrl.FilteredHistory()
	if len(items) == 0 {
		fmt.Println("No scans yet.")
		return
	}
	for _, item := range items {
		fmt.Printf("%s  %-13s  %-40s  %s\n",
			item.Timestamp.Format("15:04:05"), item.Barcode, item.Title, item.Recommendation)
	}
}
