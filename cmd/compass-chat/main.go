package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/compasslabs/compass-agent/pkg/alerting"
	"github.com/compasslabs/compass-agent/pkg/chat"
	"github.com/compasslabs/compass-agent/pkg/compass"
	"github.com/compasslabs/compass-agent/pkg/inference/openai"
	"github.com/compasslabs/compass-agent/pkg/inference/tools"
	"github.com/compasslabs/compass-agent/pkg/session"
)

var rootCmd = &cobra.Command{
	Use:   "compass-chat",
	Short: "Interactive chat agent for the Compass API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger(viper.GetString("log-level"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func init() {
	rootCmd.Flags().String("model", openai.DefaultModel, "Chat model to use")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	_ = viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("COMPASS")
	viper.AutomaticEnv()
}

func initLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %s", level)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
	return nil
}

func runChat(cmd *cobra.Command) error {
	// API credentials live in the environment; a local .env is a convenience.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	client := compass.NewClient(os.Getenv("COMPASS_API_KEY"))
	registry := tools.NewInMemoryToolRegistry()
	if err := compass.NewToolkit(client).Register(registry); err != nil {
		return errors.Wrap(err, "registering compass tools")
	}

	model := viper.GetString("model")
	eng, err := openai.NewEngine(openaiKey, model, openai.WithRegistry(registry))
	if err != nil {
		return err
	}

	sess, err := session.New(eng, registry)
	if err != nil {
		return err
	}

	var notifier alerting.Notifier
	if url := viper.GetString("alert_webhook_url"); url != "" {
		notifier = alerting.NewWebhookNotifier(url)
	}
	reporter := chat.NewReporter(notifier)

	threadID := newThreadID()
	log.Info().Str("model", model).Str("agent_id", sess.ID()).Str("thread_id", threadID).Msg("agent initialized")

	return runChatMode(cmd.Context(), reporter, sess, threadID)
}

// newThreadID derives a fresh conversation thread id from the current time.
func newThreadID() string {
	sum := sha256.Sum256([]byte(strconv.FormatFloat(float64(time.Now().UnixNano())/1e9, 'f', -1, 64)))
	return hex.EncodeToString(sum[:])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
