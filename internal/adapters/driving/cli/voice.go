package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var voiceCmd = &cobra.Command{
	Use:   "voice",
	Short: "Ask by voice or transcribe audio",
	Long:  `Transcribe audio recordings, or ask a spoken question directly.`,
}

var voiceAskCmd = &cobra.Command{
	Use:   "ask [audio-file]",
	Short: "Ask a spoken question",
	Long: `Uploads an audio recording; the assistant transcribes it and answers
the question it contains.`,
	Args: cobra.ExactArgs(1),
	RunE: runVoiceAsk,
}

var voiceTranscribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]",
	Short: "Transcribe an audio file",
	Args:  cobra.ExactArgs(1),
	RunE:  runVoiceTranscribe,
}

func init() {
	voiceCmd.AddCommand(voiceAskCmd)
	voiceCmd.AddCommand(voiceTranscribeCmd)
	rootCmd.AddCommand(voiceCmd)
}

func runVoiceAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	cmd.Println("Transcribing and answering...")

	answer, err := assistantService.AskAudio(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("voice ask failed: %w", err)
	}

	printAnswer(cmd, answer)
	return nil
}

func runVoiceTranscribe(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	transcription, err := assistantService.Transcribe(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("transcribe failed: %w", err)
	}

	cmd.Println(transcription.Text)
	cmd.Println()
	cmd.Printf("Language: %s, confidence %.0f%%, %.1fs of audio\n",
		transcription.Language, transcription.Confidence*100, transcription.Duration)
	return nil
}
