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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ademuri/festival-lineup/internal/catalog"
	"github.com/ademuri/festival-lineup/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "festival-lineup",
	Short: "Turns your listening history into a music DNA report and a festival lineup",
	Long: `Reads a listener's top artists, tracks and recent plays from Spotify or
Last.fm, profiles their genres and builds a personalised multi-day festival
lineup of headliners, supporting acts and discoveries.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.festival-lineup.yaml)")

	flags := rootCmd.PersistentFlags()

	flags.String("source", sourceSpotify, "Where listening data comes from: spotify or lastfm")
	viper.BindPFlag("source", flags.Lookup("source"))

	flags.String("spotify_token", "", "Spotify OAuth access token (user-top-read, user-read-recently-played)")
	viper.BindPFlag("spotify_token", flags.Lookup("spotify_token"))

	flags.String("api_key", "", "last.fm API key")
	viper.BindPFlag("api_key", flags.Lookup("api_key"))

	flags.String("secret", "", "last.fm secret")
	viper.BindPFlag("secret", flags.Lookup("secret"))

	flags.StringP("user", "u", "", "last.fm username to act on")
	viper.BindPFlag("user", flags.Lookup("user"))

	flags.StringP("database", "d", "./catalog.db", "Path to the SQLite catalog cache")
	viper.BindPFlag("database", flags.Lookup("database"))

	flags.Duration("cache_ttl", defaultCacheTTL, "How long cached artist tags and similar artists are used")
	viper.BindPFlag("cache_ttl", flags.Lookup("cache_ttl"))

	flags.Duration("related_delay", catalog.LineupOptions().RelatedDelay, "Pause between related-artist requests")
	viper.BindPFlag("related_delay", flags.Lookup("related_delay"))

	flags.String("log_level", "info", "Log level: trace, debug, info, warn, error or disabled")
	viper.BindPFlag("log_level", flags.Lookup("log_level"))

	flags.String("log_format", "console", "Log format: console or json")
	viper.BindPFlag("log_format", flags.Lookup("log_format"))

	flags.String("sendgrid_api_key", "", "SendGrid API key, used by email")
	viper.BindPFlag("sendgrid_api_key", flags.Lookup("sendgrid_api_key"))

	flags.String("from", "", "From email address")
	viper.BindPFlag("from", flags.Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".festival-lineup" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".festival-lineup")
	}

	// If a config file is found, read it in.
	readErr := viper.ReadInConfig()

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})

	logging.Init(logging.Config{
		Level:  viper.GetString("log_level"),
		Format: viper.GetString("log_format"),
	})
	if readErr == nil {
		logging.Debug().Str("file", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
