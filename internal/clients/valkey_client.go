package clients

import (
	"context"
	"crypto/tls"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Valkey keeps a rolling set of article links already sent in earlier
// digests so a story fetched again tomorrow isn't mailed twice. The cache is
// strictly optional: with VALKEY_INIT_ADDRESS unset the pipeline runs
// without cross-run dedup, and any cache error degrades the same way.

const (
	valkeySeenKey = "digest:seen_articles"
	seenTTLDays   = 7
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
}

// InitValkey connects to valkey if configured, returning nil otherwise.
func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		addr := os.Getenv("VALKEY_INIT_ADDRESS")
		if addr == "" {
			slog.Info("[ValkeyClient] VALKEY_INIT_ADDRESS not set, cross-run article dedup disabled")
			return
		}

		opts := valkey.ClientOption{
			InitAddress:      []string{addr},
			Password:         os.Getenv("VALKEY_PASSWORD"),
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}
		if os.Getenv("VALKEY_TLS") == "true" {
			opts.TLSConfig = &tls.Config{}
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			slog.Warn("[ValkeyClient] failed to create valkey client, continuing without cache",
				slog.String("error", err.Error()))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			slog.Warn("[ValkeyClient] failed to ping valkey, continuing without cache",
				slog.String("error", err.Error()))
			client.Close()
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// MarkSeen records article links as already digested.
func (vc *ValkeyClient) MarkSeen(ctx context.Context, links []string) {
	if vc == nil || len(links) == 0 {
		return
	}

	cmd := vc.Client.B().Sadd().Key(valkeySeenKey).Member(links...).Build()
	if err := vc.Client.Do(ctx, cmd).Error(); err != nil {
		slog.Warn("[ValkeyClient] failed to mark articles seen",
			slog.String("error", err.Error()))
		return
	}

	expire := vc.Client.B().Expire().Key(valkeySeenKey).Seconds(seenTTLDays * 86400).Build()
	if err := vc.Client.Do(ctx, expire).Error(); err != nil {
		slog.Warn("[ValkeyClient] failed to refresh seen-set TTL",
			slog.String("error", err.Error()))
	}
}

// IsSeen reports whether a link was part of a previous digest. Errors read
// as "not seen" so a cache outage never drops fresh news.
func (vc *ValkeyClient) IsSeen(ctx context.Context, link string) bool {
	if vc == nil || link == "" {
		return false
	}

	cmd := vc.Client.B().Sismember().Key(valkeySeenKey).Member(link).Build()
	seen, err := vc.Client.Do(ctx, cmd).AsBool()
	if err != nil {
		return false
	}
	return seen
}
