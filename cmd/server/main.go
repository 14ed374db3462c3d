package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/inkpress/go-blog-server/auth"
	"github.com/inkpress/go-blog-server/blob"
	"github.com/inkpress/go-blog-server/internal/config"
	"github.com/inkpress/go-blog-server/posts"
	"github.com/inkpress/go-blog-server/server"
	"github.com/inkpress/go-blog-server/store/mongodb"
	"github.com/inkpress/go-blog-server/token"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	if c.GetSecretKey() == "" {
		return errors.New("SECRET_KEY is required")
	}

	ctx := context.Background()

	store, err := mongodb.Connect(ctx, c.GetMongoURI(), c.GetDatabaseName())
	if err != nil {
		return fmt.Errorf("mongodb.Connect: %w", err)
	}
	defer func() { _ = store.Close() }()

	blobStore, serverOpts, err := buildBlobStore(c)
	if err != nil {
		return err
	}

	tokens := token.NewService(token.NewHMACSigner(c.GetSecretKey()), c.GetTokenExpiry())

	authSvc, err := auth.NewService(store.Users, tokens, c.GetBcryptCost())
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	postSvc, err := posts.NewService(store.Posts, blobStore)
	if err != nil {
		return fmt.Errorf("posts.NewService: %w", err)
	}

	oidcProvider, err := server.NewOidcProvider(ctx, c)
	if err != nil {
		return fmt.Errorf("server.NewOidcProvider: %w", err)
	}
	if oidcProvider != nil {
		serverOpts = append(serverOpts, server.WithOidcProvider(oidcProvider))
	}

	srv, err := server.New(c, authSvc, postSvc, tokens, serverOpts...)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildBlobStore selects the cover image store from configuration: the local
// uploads folder by default, an S3-compatible bucket when STORAGE_PROVIDER=s3.
func buildBlobStore(c config.Config) (blob.Store, []server.Option, error) {
	switch c.GetStorageProvider() {
	case "filesystem":
		disk, err := blob.NewDiskStore(c.GetUploadsFolder())
		if err != nil {
			return nil, nil, fmt.Errorf("blob.NewDiskStore: %w", err)
		}
		return disk, []server.Option{server.WithUploadsDir(disk.Folder())}, nil
	case "s3":
		creds, ok := config.ParseStorageURL(c.GetStorageURL())
		if !ok {
			return nil, nil, errors.New("STORAGE_URL must look like s3://<access-id>:<secret>@<region>/<bucket>")
		}
		return blob.NewRemoteStore(blob.RemoteConfig{
			AccessID: creds.AccessID,
			Secret:   creds.Secret,
			Region:   creds.Region,
			Bucket:   creds.Bucket,
		}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage provider %q", c.GetStorageProvider())
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
