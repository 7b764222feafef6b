package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adala/case-intake/internal/ai"
	"github.com/adala/case-intake/internal/config"
)

var (
	classifyText    string
	classifyFile    string
	classifyMIME    string
	classifyTimeout time.Duration
	classifyBackend string
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a filing given as text or as a PDF/image file",
	Example: `  triagectl classify --text "موضوع الدعوى: مطالبة مالية ..."
  triagectl classify --file claim.pdf
  CLASSIFIER=mock triagectl classify --file scan.jpg`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifyText, "text", "", "filing narrative")
	classifyCmd.Flags().StringVar(&classifyFile, "file", "", "path to a PDF or image, - for stdin")
	classifyCmd.Flags().StringVar(&classifyMIME, "mime", "", "media type of --file (detected when empty)")
	classifyCmd.Flags().DurationVar(&classifyTimeout, "timeout", 2*time.Minute, "classification deadline")
	classifyCmd.Flags().StringVar(&classifyBackend, "classifier", "", "override CLASSIFIER (gemini, openai, http, mock)")
	classifyCmd.MarkFlagsMutuallyExclusive("text", "file")
	classifyCmd.MarkFlagsOneRequired("text", "file")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if classifyBackend != "" {
		cfg.Classifier = classifyBackend
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()

	classifier, err := ai.New(cfg, logger)
	if err != nil {
		return err
	}

	input, err := classifyInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), classifyTimeout)
	defer cancel()

	result, err := classifier.Classify(ctx, input)
	if err != nil {
		var pe *ai.ParseError
		if errors.As(err, &pe) && pe.Raw != "" {
			logger.Debug().Str("raw", pe.Raw).Msg("unparsed classifier response")
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func classifyInput(stdin io.Reader) (ai.Input, error) {
	if classifyText != "" {
		return ai.TextInput{Text: classifyText}, nil
	}

	var (
		data []byte
		err  error
	)
	if classifyFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(classifyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", classifyFile, err)
	}

	mediaType := classifyMIME
	if mediaType == "" {
		mediaType = mimetype.Detect(data).String()
	}
	if !ai.SupportedMediaType(mediaType) {
		return nil, fmt.Errorf("unsupported media type %q: only PDF and images can be classified", mediaType)
	}
	return ai.DocumentInput{Data: data, MIMEType: mediaType}, nil
}
