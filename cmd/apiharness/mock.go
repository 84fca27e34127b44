package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docuport/apiharness/internal/mockapi"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a local mock of the product's API-definition endpoints",
	Long: `Starts an HTTP server implementing the product's apidefinitions
endpoints (create, get, bulkdelete) against an in-memory store. Point the
harness at it with portal.baseUrl to run client and teardown flows without
touching a real tenant.`,
	RunE: runMock,
}

var mockPort int

func init() {
	mockCmd.Flags().IntVarP(&mockPort, "port", "p", 8360, "Port to listen on")
}

func runMock(cmd *cobra.Command, args []string) error {
	store := mockapi.NewStore()
	router := mockapi.NewRouter(store)

	addr := fmt.Sprintf(":%d", mockPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting mock API server on %s", addr)
		log.Printf("Project version ID: %s", store.ProjectVersionID())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}
