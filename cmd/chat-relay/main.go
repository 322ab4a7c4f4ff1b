package main

import (
    "context"
    "errors"
    "fmt"
    "net"
    "os"

    gochat "github.com/SirGFM/go-chat-relay"
    "github.com/Netflix/go-env"
    gfshutdown "github.com/gelmium/graceful-shutdown"
    "github.com/joho/godotenv"
    "github.com/mama165/sdk-go/logs"
    "golang.org/x/sync/errgroup"
)

// Exit codes reported to the operating system.
const (
    exitOK = 0
    exitRuntime = 1
    exitConfig = 2
)

func main() {
    code, err := run()
    if err != nil {
        fmt.Fprintf(os.Stderr, "chat-relay terminated with error: %v\n", err)
    }
    os.Exit(code)
}

// run the relay until it receives a termination signal.
func run() (int, error) {
    // A .env file is optional.
    _ = godotenv.Load()

    var config Config
    if _, err := env.UnmarshalFromEnviron(&config); err != nil {
        return exitConfig, fmt.Errorf("config error: %w", err)
    }
    logger := logs.GetLoggerFromString(config.LogLevel)

    conf := config.serverConf()
    conf.Logger = logger
    chat, err := gochat.NewServerConf(conf)
    if err != nil {
        return exitConfig, fmt.Errorf("invalid server configuration: %w", err)
    }
    dispatcher, err := gochat.NewDispatcher(chat)
    if err != nil {
        return exitConfig, fmt.Errorf("invalid dispatcher configuration: %w", err)
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()
    g, gctx := errgroup.WithContext(ctx)

    g.Go(func() error {
        err := dispatcher.Run(gctx)
        if errors.Is(err, context.Canceled) {
            return nil
        }
        return err
    })

    ln, err := net.Listen("tcp", config.tcpAddress())
    if err != nil {
        return exitRuntime, fmt.Errorf("failed to listen on %s: %w", config.tcpAddress(), err)
    }
    defer ln.Close()
    logger.Info("Accepting TCP connections", "address", config.tcpAddress())
    g.Go(func() error {
        return serveTCP(gctx, ln, chat, config.MaxLine, logger)
    })

    var web *webServer
    if config.WSPort != 0 {
        web = newWebServer(config, chat, logger)
        logger.Info("Accepting WebSocket connections", "address", config.wsAddress())
        g.Go(web.run)
    }

    wait := gfshutdown.GracefulShutdown(
        context.Background(),
        config.ShutdownTimeout,
        map[string]gfshutdown.Operation{
            "chat-relay": func(ctx context.Context) error {
                logger.Info("Shutting down gracefully...")
                cancel()
                ln.Close()
                if web != nil {
                    web.Shutdown(ctx)
                }
                return g.Wait()
            },
        },
    )

    stopped := make(chan error, 1)
    go func() {
        stopped <- g.Wait()
    }()

    select {
    case code := <-wait:
        logger.Info("Relay stopped", "code", code)
        return code, nil
    case err := <-stopped:
        if err != nil {
            return exitRuntime, err
        }
        return <-wait, nil
    }
}
