package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-stream",
	Short: "Real-time face tracking and emotion recognition over a webcam",
	Long: `Face Stream captures frames from a local webcam, tracks the faces in
them with stable identities, periodically classifies each face's emotion
with an AI model (Ollama or OpenAI), and serves the annotated feed as an
MJPEG stream next to a JSON polling API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
