package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/factory"
	"github.com/mikey/orbit-mail/internal/logging"
	"go.uber.org/zap"
)

var (
	// Assistant flags
	provider    = flag.String("provider", "rules", "Assistant provider (rules, openai, gemini, bedrock)")
	maxTokens   = flag.Int("max-tokens", 300, "Maximum tokens for LLM response")
	temperature = flag.Float64("temperature", 0.3, "Temperature for LLM generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for LLM generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to the LLM")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Scoring flags
	spamThreshold = flag.Float64("threshold", 0.5, "Threshold for spam classification")
	knownContacts = flag.String("contacts", "", "Comma-separated list of known contact addresses")

	// Output flags
	draftTone = flag.String("draft-tone", "", "Draft a reply in the given tone (professional, casual, friendly)")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Build the scorer and assistant
	stats := core.NewStats()
	spamFactory := factory.NewSpamFactory(cfg, logger)
	directory, err := spamFactory.CreateContactDirectory()
	if err != nil {
		logger.Fatal("Failed to load contact directory", zap.Error(err))
	}
	scorer := spamFactory.CreateSpamScorer(directory, stats)

	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()
	assistantFactory := factory.NewAssistantFactory(cfg, logger, textProcessor)
	assistant, err := assistantFactory.CreateAssistant()
	if err != nil {
		logger.Fatal("Failed to create assistant", zap.Error(err))
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	parsed, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	bodyBytes, err := io.ReadAll(parsed.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	msg := &core.Message{
		ID:      parsed.Header.Get("Message-Id"),
		Subject: parsed.Header.Get("Subject"),
		Body:    string(bodyBytes),
	}
	if date, err := parsed.Header.Date(); err == nil {
		msg.Date = date.UTC()
	}
	if addr, err := mail.ParseAddress(parsed.Header.Get("From")); err == nil {
		msg.From = addr.Address
		msg.FromName = addr.Name
	} else {
		msg.From = parsed.Header.Get("From")
	}

	// Print email summary
	fmt.Printf("\n=== Email ===\n")
	fmt.Printf("From: %s\n", parsed.Header.Get("From"))
	fmt.Printf("Subject: %s\n", msg.Subject)
	fmt.Printf("Body length: %d bytes\n", len(msg.Body))
	fmt.Printf("Thread key: %s\n", core.ThreadKeyFor(msg.Subject))
	fmt.Printf("Normalized subject: %s\n", core.NormalizeSubject(msg.Subject))

	// Score the message
	startTime := time.Now()
	verdict := scorer.Score(msg)

	fmt.Printf("\n=== Spam Verdict ===\n")
	fmt.Printf("Is spam: %t\n", verdict.IsSpam)
	fmt.Printf("Score: %.4f\n", verdict.Score)
	fmt.Printf("Reason: %s\n", verdict.Reason)

	// Summarize and extract action items
	ctx := context.Background()

	summary, err := assistant.SummarizeMessage(ctx, msg)
	if err != nil {
		logger.Fatal("Failed to summarize message", zap.Error(err))
	}
	fmt.Printf("\n=== Summary ===\n%s\n", summary)

	items, err := assistant.ExtractActionItems(ctx, msg)
	if err != nil {
		logger.Fatal("Failed to extract action items", zap.Error(err))
	}
	if len(items) > 0 {
		fmt.Printf("\n=== Action Items ===\n")
		for _, item := range items {
			fmt.Printf("- %s\n", item)
		}
	}

	if *draftTone != "" {
		draft, err := assistant.DraftReply(ctx, msg, *draftTone)
		if err != nil {
			logger.Fatal("Failed to draft reply", zap.Error(err))
		}
		fmt.Printf("\n=== Draft Reply (%s) ===\n%s\n", *draftTone, draft)
	}

	fmt.Printf("\nProcessing time: %v\n", time.Since(startTime))

	// Close any resources that need closing
	if closer, ok := assistant.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close assistant", zap.Error(err))
		}
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set assistant provider
	v.Set("assistant.provider", *provider)
	v.Set("assistant.max_body_size", *maxBodySize)

	// Set provider-specific configuration
	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	}

	// Set spam scoring configuration
	v.Set("spam.threshold", *spamThreshold)
	if *knownContacts != "" {
		addresses := strings.Split(*knownContacts, ",")
		for i, addr := range addresses {
			addresses[i] = strings.TrimSpace(addr)
		}
		v.Set("contacts.addresses", addresses)
	}

	return config.NewFromViper(v)
}
