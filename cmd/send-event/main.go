package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/loyalteez/saas-demo-backend/pkg/config"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/loyalteez"
)

// metaFlags collects repeated -meta key=value pairs.
type metaFlags map[string]any

func (m metaFlags) String() string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (m metaFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("metadata must be key=value, got %q", value)
	}
	m[key] = val
	return nil
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "send-event", Output: os.Stderr})

	_ = godotenv.Load()

	eventType := flag.String("event", "", "event type to track, e.g. newsletter_subscribe")
	user := flag.String("user", "", "user identifier, usually an email")
	endpoint := flag.String("endpoint", "", "override the rewards endpoint")
	meta := metaFlags{}
	flag.Var(meta, "meta", "metadata entry key=value (repeatable)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "send-event",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	opts := []loyalteez.Option{loyalteez.WithLogger(logg)}
	if *endpoint != "" {
		opts = append(opts, loyalteez.WithEndpoint(*endpoint))
	}

	var result loyalteez.Result
	client, err := loyalteez.NewClient(cfg.Loyalteez, opts...)
	if err != nil {
		result = loyalteez.Failure(err)
	} else {
		result = client.Track(ctx, loyalteez.Event{
			Type:           *eventType,
			UserIdentifier: *user,
			Metadata:       meta,
		})
	}

	out, err := json.MarshalIndent(result, "", "  ")
	requireResource(ctx, logg, "result encoding", err)
	fmt.Println(string(out))

	if !result.Success {
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
