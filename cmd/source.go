/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/lastfm"
	"github.com/ademuri/festival-lineup/internal/lineup"
	"github.com/ademuri/festival-lineup/internal/spotify"
	"github.com/ademuri/festival-lineup/internal/store"
)

const (
	sourceSpotify = "spotify"
	sourceLastfm  = "lastfm"

	defaultCacheTTL = lastfm.DefaultTTL
)

type SourceConfig struct {
	Kind         string
	SpotifyToken string
	ApiKey       string
	Secret       string
	User         string
	DbPath       string
	CacheTTL     time.Duration
}

func sourceConfigFromViper() SourceConfig {
	return SourceConfig{
		Kind:         viper.GetString("source"),
		SpotifyToken: viper.GetString("spotify_token"),
		ApiKey:       viper.GetString("api_key"),
		Secret:       viper.GetString("secret"),
		User:         viper.GetString("user"),
		DbPath:       viper.GetString("database"),
		CacheTTL:     viper.GetDuration("cache_ttl"),
	}
}

func requiredFlag(name string) error {
	return fmt.Errorf("required flag(s) %q not set", name)
}

// openSource builds the configured catalog source. The returned close
// function releases the catalog cache, if one was opened.
func openSource(config SourceConfig) (catalog.Source, func() error, error) {
	noop := func() error { return nil }

	switch config.Kind {
	case sourceSpotify, "":
		if config.SpotifyToken == "" {
			return nil, nil, requiredFlag("spotify_token")
		}
		return spotify.New(config.SpotifyToken), noop, nil

	case sourceLastfm:
		src, db, err := openLastfm(config)
		if err != nil {
			return nil, nil, err
		}
		return src, db.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source %q, must be %s or %s", config.Kind, sourceSpotify, sourceLastfm)
}

func openLastfm(config SourceConfig) (*lastfm.Source, *store.Store, error) {
	for _, f := range []struct{ name, value string }{
		{"api_key", config.ApiKey},
		{"secret", config.Secret},
		{"user", config.User},
	} {
		if f.value == "" {
			return nil, nil, requiredFlag(f.name)
		}
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog cache: %w", err)
	}
	src := lastfm.New(lastfm.NewAPI(config.ApiKey, config.Secret), db, config.User, lastfm.WithTTL(config.CacheTTL))
	return src, db, nil
}

// collectOptions applies the configured pacing to opts.
func collectOptions(opts catalog.CollectOptions) catalog.CollectOptions {
	if viper.IsSet("related_delay") {
		opts.RelatedDelay = viper.GetDuration("related_delay")
	}
	return opts
}

// lineupConfig reads the "lineup" config block over the defaults.
func lineupConfig() (lineup.Config, error) {
	cfg := lineup.DefaultConfig()
	if err := viper.UnmarshalKey("lineup", &cfg); err != nil {
		return lineup.Config{}, fmt.Errorf("reading lineup config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return lineup.Config{}, err
	}
	return cfg, nil
}
