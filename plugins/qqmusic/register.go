package qqmusic

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
	userAgent := cfg.GetPluginString(providerName, "user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.GetPluginInt(providerName, "timeout")
	if timeout <= 0 {
		timeout = cfg.GetInt("HTTPTimeout")
	}
	cookie := cfg.GetPluginString(providerName, "cookie")

	headers := map[string]string{
		"Referer":    defaultReferer,
		"User-Agent": userAgent,
	}
	if cookie != "" {
		headers["Cookie"] = cookie
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
		Headers:         headers,
		Logger:          log,
	})
	client := NewClient(fetcher, Endpoints{
		API:    cfg.GetPluginString(providerName, "base_url"),
		Musics: cfg.GetPluginString(providerName, "musics_url"),
		Stream: cfg.GetPluginString(providerName, "stream_url"),
	}, cookie, log)
	return NewPlatform(client, WithLogger(log)), nil
}
