package netease

import (
	"fmt"
	"time"

	"github.com/liuran001/hymusic/core"
	"github.com/liuran001/hymusic/core/config"
	"github.com/liuran001/hymusic/core/platform"
	platformplugins "github.com/liuran001/hymusic/core/platform/plugins"
	"github.com/liuran001/hymusic/core/transport"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

func init() {
	if err := platformplugins.Register(providerName, build); err != nil {
		panic(err)
	}
}

func build(cfg *config.Config, logger core.Logger) (platform.Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	baseURL := cfg.GetPluginString(providerName, "base_url")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.GetPluginString(providerName, "user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.GetPluginInt(providerName, "timeout")
	if timeout <= 0 {
		timeout = cfg.GetInt("HTTPTimeout")
	}

	var log core.Logger
	if logger != nil {
		log = logger.With("provider", providerName)
	}
	fetcher := transport.New(transport.Options{
		Timeout:         time.Duration(timeout) * time.Second,
		RetryMax:        cfg.GetInt("HTTPRetryMax"),
		Name:            providerName,
		RateLimit:       cfg.GetFloat64("HTTPRateLimit"),
		RateBurst:       cfg.GetInt("HTTPRateBurst"),
		BreakerFailures: cfg.GetInt("HTTPBreakerFailures"),
		Headers: map[string]string{
			"Referer":    DefaultBaseURL,
			"User-Agent": userAgent,
		},
		Logger: log,
	})
	client := NewClient(fetcher, baseURL, log)
	return NewPlatform(client, WithLogger(log)), nil
}
